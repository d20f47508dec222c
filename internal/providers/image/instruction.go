package image

import (
	"fmt"
	"strings"

	"github.com/cseifert512/Drafted/internal/domain"
)

// BuildEditInstruction renders the prompt for one opening edit. The contract
// with the generator: draw the described opening where the red marker is,
// remove the marker entirely, and leave every other pixel untouched.
func BuildEditInstruction(op domain.Opening) string {
	var b strings.Builder
	b.WriteString("This is a rendered floor plan. A red rectangle marks where a new opening must be added.\n")
	fmt.Fprintf(&b, "Inside the red rectangle, draw %s.\n", op.Describe())
	b.WriteString("Remove the red rectangle completely; no red marker lines may remain.\n")
	b.WriteString("Do not modify anything outside the red rectangle: walls, rooms, furniture, colors and lighting elsewhere must stay exactly as they are.\n")
	if op.Kind.Params().IsExterior {
		b.WriteString("The opening sits on an exterior wall and must connect to the outside of the plan.\n")
	}
	b.WriteString("Match the plan's existing line weight, color palette and top-down drawing style.")
	return b.String()
}
