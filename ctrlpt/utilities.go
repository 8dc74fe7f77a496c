package ctrlpt

import (
	"fmt"
	"strings"
)

// AsString returns the control points of a snapshot as a (debugging)
// string, closing the loop with "cycle":
//
//	(0,0,0){up (0,1,0)} .. (10,0,0){up (0,1,0)} .. cycle
func AsString(s Snapshot) string {
	var b strings.Builder
	for i := 0; i < s.N(); i++ {
		if i > 0 {
			b.WriteString(" .. ")
		}
		b.WriteString(ptstring(s.At(i)))
	}
	if s.N() > 0 {
		b.WriteString(" .. cycle")
	}
	return b.String()
}

func ptstring(cp ControlPoint) string {
	return fmt.Sprintf("(%.4g,%.4g,%.4g){up (%.4g,%.4g,%.4g)}",
		round(cp.Pos[0]), round(cp.Pos[1]), round(cp.Pos[2]),
		round(cp.Orient[0]), round(cp.Orient[1]), round(cp.Orient[2]))
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*10000.0+0.5)) / 10000.0
	}
	return float64(int64(x*10000.0-0.5)) / 10000.0
}
