package cli

var (
	GetIndexConfig = getIndexConfig
	ReadRequest    = readRequest
	PrintSummary   = printSummary
	AppendIngested = appendIngested
)
