package tool

// LocalShellName is the name of the built-in local shell tool.
const LocalShellName = "local_shell"

// LocalShellSpec offers the server-defined local shell tool. Model families
// that use it emit local_shell_call items instead of function calls.
type LocalShellSpec struct{}

// Name implements Spec.
func (LocalShellSpec) Name() string { return LocalShellName }

// ResponsesTool implements Spec.
func (LocalShellSpec) ResponsesTool() (map[string]any, error) {
	return map[string]any{"type": "local_shell"}, nil
}
