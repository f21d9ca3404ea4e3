package secret

const (
	DefaultMinLen     uint32  = 8
	DefaultMinEntropy float32 = 0.5
)

// Detector recognises one kind of credential.
//
// RuleName must be unique and kebab-case. MinLen must be at least 1 and
// MinEntropy must not be negative. Detect must not assume the thresholds have
// been checked. Verify is only called after Detect accepted the candidate and
// may veto the match.
type Detector interface {
	RuleName() string
	Message() string
	MinLen() uint32
	MinEntropy() float32
	Detect(c Candidate) bool
	Verify(v Violation) bool
}

// Defaults can be embedded in a Detector to get the default thresholds and a
// Verify that accepts every match.
type Defaults struct{}

func (Defaults) MinLen() uint32 {
	return DefaultMinLen
}

func (Defaults) MinEntropy() float32 {
	return DefaultMinEntropy
}

func (Defaults) Verify(Violation) bool {
	return true
}
