// Package demo is a sample host type exercising tools, resources, and
// prompts end to end: it is registered against a real registry.Registry via
// pkg/scan in the package's tests and in cmd/mcpkit-demo, the same way an
// application author would register their own host type.
package demo

import (
	"fmt"
	"strings"

	"github.com/ksysoev/mcpkit/pkg/markers"
	"github.com/ksysoev/mcpkit/pkg/mcpctx"
)

// Host groups the tools, resources, and prompts this package registers. An
// application is free to spread these across several host values, calling
// pkg/scan.Register once per host.
type Host struct {
	// users backs GetUser, standing in for whatever store a real
	// application would read from.
	users map[string]string
}

// NewHost builds a Host pre-populated with a couple of users so GetUser has
// something to find.
func NewHost() *Host {
	return &Host{users: map[string]string{
		"42": "Grace Hopper",
		"7":  "Ada Lovelace",
	}}
}

// AddArgs is the args struct for Add: two required numbers.
type AddArgs struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Add returns a+b; both operands are required.
func (h *Host) Add(args AddArgs) (float64, error) {
	return args.A + args.B, nil
}

// GreetArgs is the args struct for Greet: name is required, title is
// optional.
type GreetArgs struct {
	Name  string  `json:"name"`
	Title *string `json:"title"`
}

// Greet returns "<title> <name>" when title is present, else just <name>.
func (h *Host) Greet(args GreetArgs) (string, error) {
	if args.Title != nil && *args.Title != "" {
		return fmt.Sprintf("%s %s", *args.Title, args.Name), nil
	}
	return args.Name, nil
}

// Operation is the Go substitute for calculator's closed set of operator
// strings: a named string type with a Variants method, detected by
// typeshape as a Sum shape rather than a free-form string.
type Operation string

const (
	OpAdd      Operation = "ADD"
	OpSubtract Operation = "SUBTRACT"
	OpMultiply Operation = "MULTIPLY"
	OpDivide   Operation = "DIVIDE"
)

// Variants implements typeshape's enum detection.
func (Operation) Variants() []string {
	return []string{string(OpAdd), string(OpSubtract), string(OpMultiply), string(OpDivide)}
}

// CalculatorArgs is the args struct for Calculator. Op carries a default via
// the `mcp:"default=ADD"` tag, the Go substitute for a language-level
// default parameter value (see DESIGN.md).
type CalculatorArgs struct {
	A  float64   `json:"a"`
	B  float64   `json:"b"`
	Op Operation `json:"op" mcp:"default=ADD"`
}

// Calculator applies op to a and b. With op omitted it defaults to ADD, so
// calculator(10,5) returns 15; calculator(10,5,"MULTIPLY") returns 50.
func (h *Host) Calculator(args CalculatorArgs) (float64, error) {
	switch Operation(strings.ToUpper(string(args.Op))) {
	case OpAdd, "":
		return args.A + args.B, nil
	case OpSubtract:
		return args.A - args.B, nil
	case OpMultiply:
		return args.A * args.B, nil
	case OpDivide:
		if args.B == 0 {
			return 0, fmt.Errorf("demo: division by zero")
		}
		return args.A / args.B, nil
	default:
		return 0, fmt.Errorf("demo: unknown operation %q", args.Op)
	}
}

// GetUserArgs is the args struct for GetUser, bound to the {userId}
// placeholder of the users://{userId} resource template.
type GetUserArgs struct {
	UserID string `json:"userId"`
}

// GetUser resolves a user by id. users://42 extracts userId="42" and
// invokes this with it; an unmatched scheme like teams://42 never reaches
// the handler at all (registry.ReadResource returns NotFound first).
func (h *Host) GetUser(args GetUserArgs) (string, error) {
	name, ok := h.users[args.UserID]
	if !ok {
		return "", fmt.Errorf("demo: no such user %q", args.UserID)
	}
	return name, nil
}

// CreateUserArgs is the args struct for CreateUser. Username carries
// examples via its `mcp` tag.
type CreateUserArgs struct {
	Username string `json:"username" mcp:"examples=john_doe,jane_smith"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
}

// CreateUser reports the user it would have created; this demo host keeps
// no persistent state of its own.
func (h *Host) CreateUser(args CreateUserArgs) (string, error) {
	return fmt.Sprintf("created user %s <%s>, age %d", args.Username, args.Email, args.Age), nil
}

// ProcessTaskArgs is the args struct for ProcessTask. Status carries a
// schema_override restricting it to an explicit enum — deliberately declared
// as a plain string in Go (not an Operation-style enum type) so the
// override, not the TypeShape walker, is what produces the enum in the
// schema.
type ProcessTaskArgs struct {
	Name   string `json:"name"`
	Status string `json:"status" mcp:"schema={\"type\":\"string\",\"enum\":[\"pending\",\"active\",\"completed\",\"cancelled\"]}"`
}

// ProcessTask reports the task's new status.
func (h *Host) ProcessTask(args ProcessTaskArgs) (string, error) {
	return fmt.Sprintf("task %s is now %s", args.Name, args.Status), nil
}

// StringPromptArgs is the args struct for StringPrompt.
type StringPromptArgs struct {
	Param string `json:"param"`
}

// StringPrompt returns its argument verbatim; pkg/demoserver wraps a string
// prompt result into a single user-role text message per spec.md §6's
// prompt adaptation rule, so this method itself stays a plain string
// function. Spec.md §8 scenario 7.
func (h *Host) StringPrompt(args StringPromptArgs) (string, error) {
	return args.Param, nil
}

// EchoArgs is the args struct for Echo, which exercises the ctx injection
// path: its first parameter is mcpctx.RequestContext, excluded from the
// schema and from argument lookup per spec.md §4.7.
type EchoArgs struct {
	Text string `json:"text"`
}

// Echo returns text prefixed with the connected client's name, when known.
func (h *Host) Echo(ctx mcpctx.RequestContext, args EchoArgs) (string, error) {
	if name := ctx.ClientInfo().Name; name != "" {
		return fmt.Sprintf("%s says: %s", name, args.Text), nil
	}
	return args.Text, nil
}

// Markers lists every Tool/Resource/Prompt marker for Host's methods, the
// sidecar discovery surface pkg/scan.Register scans (see SPEC_FULL.md §0).
func Markers() []markers.Marker {
	return []markers.Marker{
		markers.Tool("Add", markers.WithName("add"), markers.WithDocComment("Adds two numbers.")),
		markers.Tool("Greet", markers.WithName("greet"), markers.WithDocComment("Greets a person, optionally by title.")),
		markers.Tool("Calculator", markers.WithName("calculator"), markers.WithDocComment("Performs a basic arithmetic operation.")),
		markers.Tool("CreateUser", markers.WithName("createUser"), markers.WithDocComment("Creates a user account.")),
		markers.Tool("ProcessTask", markers.WithName("processTask"), markers.WithDocComment("Transitions a task to a new status.")),
		markers.Tool("Echo", markers.WithName("echo"), markers.WithDocComment("Echoes text back, naming the connected client when known.")),
		markers.Resource("GetUser", "users://{userId}", markers.WithName("getUser"), markers.WithDescription("Looks up a user by id.")),
		markers.Prompt("StringPrompt", markers.WithName("stringPrompt"), markers.WithDescription("Wraps its argument as a single user message.")),
	}
}
