// Package services orchestrates the profile fetch, the pure chart and
// summary computations and the snapshot events around them.
package services

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/sync/singleflight"

	"xpdash/internal/cache"
	"xpdash/internal/chart"
	"xpdash/internal/core"
	"xpdash/internal/log"
	"xpdash/internal/session"
)

// Chart dimension bounds applied to caller-supplied sizes.
const (
	MinChartSize = 120
	MaxChartSize = 4000
)

// DefaultFetchTimeout bounds a shared profile fetch, which outlives any
// single caller's request.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher loads the profile visible to a bearer token.
type Fetcher interface {
	FetchProfile(ctx context.Context, token string) (core.Profile, error)
}

// SnapshotPublisher forwards snapshots to the background pipeline.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, s core.Snapshot) error
}

// Part selects which derived views Dashboard computes. The summary and
// subset counts are always filled.
type Part uint8

const (
	PartProjectsSVG Part = 1 << iota
	PartExercisesSVG
	PartGeometry

	PageParts = PartProjectsSVG | PartExercisesSVG
)

// Dashboard is everything the page needs for one render.
type Dashboard struct {
	Summary   core.Summary `json:"summary"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Projects  int          `json:"projects"`
	Exercises int          `json:"exercises"`
	Bars      []chart.Bar  `json:"bars"`
	Series    chart.Series `json:"series"`

	ProjectsSVG  template.HTML `json:"-"`
	ExercisesSVG template.HTML `json:"-"`
}

type ProfileService struct {
	fetcher   Fetcher
	publisher SnapshotPublisher
	profiles  *cache.LRUCache[core.Profile]
	group     singleflight.Group
	now       func() time.Time

	fetchTimeout time.Duration
}

// NewProfileService caches up to cacheSize profiles for cacheTTL, keyed by
// session ID. publisher may be nil.
func NewProfileService(fetcher Fetcher, publisher SnapshotPublisher, cacheSize int, cacheTTL time.Duration) *ProfileService {
	return &ProfileService{
		fetcher:   fetcher,
		publisher: publisher,
		profiles:  cache.NewLRUCache[core.Profile](cacheSize, cacheTTL),
		now:       time.Now,

		fetchTimeout: DefaultFetchTimeout,
	}
}

// SetFetchTimeout changes the bound on shared fetches. Non-positive values
// keep the current one.
func (s *ProfileService) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		s.fetchTimeout = d
	}
}

// Cache exposes the profile cache so it can be registered for cleanup.
func (s *ProfileService) Cache() *cache.LRUCache[core.Profile] { return s.profiles }

// Profile returns the cached profile for the session or fetches it.
// Concurrent misses for the same session share a single upstream request,
// which runs detached from every caller: a caller that goes away stops
// waiting but does not cancel the fetch for the others. The second return
// value reports a cache hit.
func (s *ProfileService) Profile(ctx context.Context, sess session.Session) (core.Profile, bool, error) {
	if p, ok := s.profiles.Get(sess.ID); ok {
		return p, true, nil
	}

	ch := s.group.DoChan(sess.ID, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		p, err := s.fetcher.FetchProfile(fctx, sess.Token)
		if err != nil {
			return core.Profile{}, err
		}
		s.profiles.Set(sess.ID, p)
		s.publish(fctx, p)
		return p, nil
	})

	select {
	case <-ctx.Done():
		return core.Profile{}, false, fmt.Errorf("fetch profile: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return core.Profile{}, false, fmt.Errorf("fetch profile: %w", res.Err)
		}
		return res.Val.(core.Profile), false, nil
	}
}

// Dashboard builds the summary and the requested parts for a container of
// the given size. Charts for empty subsets are never laid out.
func (s *ProfileService) Dashboard(ctx context.Context, sess session.Session, width, height int, parts Part) (Dashboard, error) {
	p, hit, err := s.Profile(ctx, sess)
	if err != nil {
		return Dashboard{}, err
	}

	w, h := ClampDimension(width), ClampDimension(height)
	fw, fh := float64(w), float64(h)
	part := core.Classify(p.Transactions)

	d := Dashboard{
		Summary:   core.Summarize(p),
		Width:     w,
		Height:    h,
		Projects:  len(part.Projects),
		Exercises: len(part.Exercises),
	}
	if parts&PartProjectsSVG != 0 {
		d.ProjectsSVG = chart.RenderProjects(part.Projects, fw, fh)
	}
	if parts&PartExercisesSVG != 0 {
		d.ExercisesSVG = chart.RenderExercises(part.Exercises, fw, fh)
	}
	if parts&PartGeometry != 0 {
		if len(part.Projects) > 0 {
			d.Bars = chart.LayoutBars(part.Projects, fw, fh)
		}
		if len(part.Exercises) > 0 {
			d.Series = chart.LayoutSeries(part.Exercises, fw, fh)
		}
	}

	logger := log.FromContext(ctx).WithComponent(log.ComponentProfile)
	if !hit {
		log.NewStructuredLogger(logger).LogProfileLoaded(ctx, p.User.Login, p.Totals.Total, d.Projects, d.Exercises, hit)
	}
	logger.DebugContext(ctx, "Dashboard built",
		log.FieldLogin, p.User.Login,
		log.FieldWidth, w,
		log.FieldHeight, h,
		log.FieldCacheHit, hit)
	return d, nil
}

// Invalidate drops the cached profile of a session.
func (s *ProfileService) Invalidate(sessionID string) {
	s.profiles.Delete(sessionID)
	s.group.Forget(sessionID)
}

// publish is best effort: a failed publish never fails the page.
func (s *ProfileService) publish(ctx context.Context, p core.Profile) {
	if s.publisher == nil {
		return
	}
	snap := core.NewSnapshot(p, core.Classify(p.Transactions), s.now())
	if err := s.publisher.PublishSnapshot(ctx, snap); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentAMQP).WarnContext(ctx, "Failed to publish profile snapshot",
			log.FieldLogin, snap.Login,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err.Error())
	}
}

// ClampDimension bounds a requested chart size. Zero or negative means the
// caller gave none and gets the minimum.
func ClampDimension(v int) int {
	if v < MinChartSize {
		return MinChartSize
	}
	if v > MaxChartSize {
		return MaxChartSize
	}
	return v
}
