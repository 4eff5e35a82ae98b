package scoring

// Per-event intensity constants for the ACLED family.
const (
	intensityBase = 5

	fatalityAdjustmentCap = 3
	fatalitiesPerStep     = 5
)

// typeAdjustments shifts the base intensity by ACLED event type.
// Unknown types contribute nothing.
var typeAdjustments = map[string]int{
	"Violence against civilians": 2,
	"Battle":                     3,
	"Explosion/Remote violence":  3,
	"Riots":                      1,
	"Protests":                   0,
	"Strategic development":      -1,
}

// Intensity computes the 0-10 per-event severity score for an ACLED
// event from its type and fatality count:
//
//	intensity = clamp(5 + typeAdjustment + min(3, fatalities/5), 0, 10)
//
// This is an independent score family from the country-level SGM set;
// the two are served side by side and never merged.
func Intensity(eventType string, fatalities int) float64 {
	adjustment := typeAdjustments[eventType]

	fatalityAdjustment := 0
	if fatalities > 0 {
		fatalityAdjustment = fatalities / fatalitiesPerStep
		if fatalityAdjustment > fatalityAdjustmentCap {
			fatalityAdjustment = fatalityAdjustmentCap
		}
	}

	return clamp(float64(intensityBase+adjustment+fatalityAdjustment), scoreMin, scoreMax)
}
