package scanio

// LogType tags a load cycle with the kind of file section being fetched.
// It is passed through to the logger and the metrics collector so that
// instrumentation can split footer fetches from column data fetches.
type LogType int

const (
	LogTypeFile LogType = iota
	LogTypeFooter
	LogTypeStripe
	LogTypeStreamBundle
	LogTypeStream
	LogTypeTest
)

func (t LogType) String() string {
	switch t {
	case LogTypeFile:
		return "file"
	case LogTypeFooter:
		return "footer"
	case LogTypeStripe:
		return "stripe"
	case LogTypeStreamBundle:
		return "stream_bundle"
	case LogTypeStream:
		return "stream"
	case LogTypeTest:
		return "test"
	default:
		return "unknown"
	}
}
