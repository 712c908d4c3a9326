package frame

import "github.com/iburimskiy/ifs-editor/internal/transform"

// DefaultIFS is the hand-tuned starting IFS: one linear map and two
// inverse Julia branches.
func DefaultIFS() *transform.Collection {
	c, err := transform.NewCollection(
		transform.Linear{
			A: 0.07927406, B: 0.4419875, C: -0.64647937, D: 0.19174504,
			Common: transform.Common{
				BaseColor: transform.Color{R: 0.13267994, G: 0.49911928, B: 0.9295654},
				Weight:    0.93828845,
			},
		},
		transform.InverseJulia{
			R: 1.1700816, Theta: 2.9560707,
			Common: transform.Common{
				BaseColor: transform.Color{R: 0.9284186, G: 0.4638964, B: 0.20791459},
				Weight:    0.95615274,
			},
		},
		transform.InverseJulia{
			R: 1.0998807, Theta: 1.9877317,
			Common: transform.Common{
				BaseColor: transform.Color{R: 0.41831225, G: 0.5540522, B: 0.46177816},
				Weight:    1.0506994,
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultStepCounts is the number of frames between the two default keyframes.
var DefaultStepCounts = []int{2}
