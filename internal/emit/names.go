package emit

import (
	"fmt"
	"strings"
)

// funcName returns the exported Go identifier for the routine at
// address, namespaced by prefix in batch mode so that linking many
// ROMs' packages together is collision-free. Exported because batch
// mode's catalog calls it from another package.
func funcName(address uint16, prefix string) string {
	if prefix == "" {
		return fmt.Sprintf("Func0x%03X", address)
	}
	return fmt.Sprintf("%s_Func0x%03X", exportPrefix(prefix), address)
}

// labelName returns the Go label used for a block-internal jump target.
// Labels are function-local, so no prefix is needed even in batch mode.
func labelName(address uint16) string {
	return fmt.Sprintf("label0x%03X", address)
}

// registerHookName returns the exported name of the per-ROM function
// that installs every call target into chip8rt's dispatch table.
func registerHookName(prefix string) string {
	if prefix == "" {
		return "RegisterFunctions"
	}
	return exportPrefix(prefix) + "_RegisterFunctions"
}

// exportPrefix capitalizes the first letter of a (lowercase, identifier-
// safe) ROM prefix so the generated names it's used in start with an
// uppercase letter where Go requires export, while staying legible
// in the `<Prefix>_Func0xHHH` names funcName builds.
func exportPrefix(prefix string) string {
	if prefix == "" {
		return prefix
	}
	return strings.ToUpper(prefix[:1]) + prefix[1:]
}
