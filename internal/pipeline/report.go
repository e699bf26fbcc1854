package pipeline

// EntityReport tallies the outcomes of one entity's partitions in a run.
type EntityReport struct {
	Written        int
	SkippedExists  int
	SkippedPartial int
	Failed         int
}

// Report summarizes one pipeline run.
type Report struct {
	Season      string
	DateFrom    string
	DateTo      string
	Games       int
	Entities    map[string]*EntityReport
	FailedGames []string
}

func newReport(season, from, to string) *Report {
	return &Report{
		Season:   season,
		DateFrom: from,
		DateTo:   to,
		Entities: make(map[string]*EntityReport),
	}
}

func (r *Report) entity(name string) *EntityReport {
	e, ok := r.Entities[name]
	if !ok {
		e = &EntityReport{}
		r.Entities[name] = e
	}
	return e
}

// recordFact folds a WriteFact outcome into the entity tally.
func (r *Report) recordFact(entity string, written bool) {
	if written {
		r.entity(entity).Written++
	} else {
		r.entity(entity).SkippedExists++
	}
}

func (r *Report) recordFailure(entity string) {
	r.entity(entity).Failed++
}

// TotalWritten sums landed partitions across entities.
func (r *Report) TotalWritten() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Written
	}
	return n
}

// TotalFailed sums failed partitions across entities.
func (r *Report) TotalFailed() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Failed
	}
	return n
}
