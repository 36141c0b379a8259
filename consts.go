package loom

const (
	// DefaultLogDir is the directory used for file output when the
	// configuration does not name one.
	DefaultLogDir = "./logs"

	// DefaultMaxFileSizeMB is the rotation threshold applied when the
	// configuration leaves the size unset.
	DefaultMaxFileSizeMB = 10

	// DefaultBackupCount is the number of rotated files retained when the
	// configuration leaves the count unset.
	DefaultBackupCount = 5

	emptyString = ""
)

// timeLayout renders the record timestamp as two pipe-separated fields.
const timeLayout = "02-01-2006 | 15:04:05"

const (
	errMsgEmptyName     = "Logger name is empty."
	errMsgConfigInvalid = "Logger configuration is invalid."
	errMsgBadLevel      = "Unknown severity level."
	errMsgBadThreshold  = "Numeric thresholds must be positive."
	errMsgNilRegistry   = "Registry is nil."
)
