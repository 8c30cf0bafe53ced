package funnel

// Stage is one step of the sales funnel. The zero value is Qualification and
// the numeric order is the funnel order.
type Stage int

const (
	StageQualification Stage = iota
	StagePresentation
	StageProofOfConcept
	StageProposal
	StageLegalReview
	StageNegotiation
	StageClosedWon
)

// StageCount is the number of funnel stages.
const StageCount = 7

// DollarSuffix is appended to a stage label to name its dollar-amount column.
const DollarSuffix = " $"

var stageLabels = [StageCount]string{
	"Qualification",
	"Presentation",
	"Proof of Concept",
	"Proposal/Price Quote",
	"Legal Review",
	"Negotiation",
	"Closed Won",
}

// Stages returns every stage in funnel order.
func Stages() []Stage {
	out := make([]Stage, StageCount)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}

// StageLabels returns the display label of every stage in funnel order.
func StageLabels() []string {
	out := make([]string, StageCount)
	copy(out, stageLabels[:])
	return out
}

// String returns the stage label as it appears in the dataset header.
func (s Stage) String() string {
	if s < 0 || int(s) >= StageCount {
		return "Unknown"
	}
	return stageLabels[s]
}

// CountColumn is the header of the opportunity-count column for the stage.
func (s Stage) CountColumn() string {
	return s.String()
}

// DollarColumn is the header of the dollar-amount column for the stage.
func (s Stage) DollarColumn() string {
	return s.String() + DollarSuffix
}

// StageValues holds one number per stage, indexed by Stage.
type StageValues [StageCount]float64

// At returns the value recorded for the stage.
func (v StageValues) At(s Stage) float64 {
	return v[s]
}

// First is the Qualification value, the base of every percentage.
func (v StageValues) First() float64 {
	return v[StageQualification]
}

