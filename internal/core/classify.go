package core

// Partition holds the chartable subsets of a transaction history.
type Partition struct {
	Projects  []Transaction
	Exercises []Transaction
}

// Classify splits records into projects and exercises in a single stable
// pass. Records of any other type are dropped; the upstream query already
// excludes piscine and checkpoint paths so no path filtering happens here.
func Classify(records []Transaction) Partition {
	var p Partition
	for _, r := range records {
		switch r.Object.Type {
		case ObjectProject:
			p.Projects = append(p.Projects, r)
		case ObjectExercise:
			p.Exercises = append(p.Exercises, r)
		}
	}
	return p
}
