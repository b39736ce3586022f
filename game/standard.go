package game

const (
	StandardSize      = 11
	StandardRunLength = 4
)

// NewStandardRules returns the tournament geometry: 11×11, four in a row loses.
func NewStandardRules() Rules {
	return Rules{
		Size:      StandardSize,
		RunLength: StandardRunLength,
	}
}
