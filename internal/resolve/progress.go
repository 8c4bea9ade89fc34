package resolve

// ProgressFunc receives advisory progress updates. It may be called from
// several goroutines.
type ProgressFunc func(done, total int)

func (p ProgressFunc) report(done, total int) {
	if p != nil {
		p(done, total)
	}
}
