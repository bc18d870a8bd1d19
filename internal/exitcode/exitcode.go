package exitcode

const (
	Success       = 0
	UsageError    = 1
	InputError    = 2
	AnalysisError = 3
	OutputError   = 4
)
