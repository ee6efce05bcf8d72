package plugin

import (
	"fmt"
	goplugin "plugin"

	"github.com/statboard/statboard/pkg/widget"
)

// ABIVersion is the plugin contract version this build of the engine
// understands. Modules exporting a different value are skipped.
const ABIVersion = 1

// Symbols are the exports the plugin module contract requires:
//
//	var ABIVersion int            // must equal plugin.ABIVersion
//	var WidgetName string         // exported widget type name
//	func NewWidget() widget.Widget
type Symbols struct {
	ABIVersion int
	WidgetName string
	New        widget.Factory
}

// Opener resolves a module file into its exported symbols. The production
// implementation uses the runtime's plugin support; tests substitute fakes
// since shared objects cannot be built inside the test process.
type Opener interface {
	Open(path string) (*Symbols, error)
}

// SharedObjectOpener opens .so files via the Go plugin runtime.
type SharedObjectOpener struct{}

// Open loads the module and resolves the contract exports.
func (SharedObjectOpener) Open(path string) (*Symbols, error) {
	mod, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	abiSym, err := mod.Lookup("ABIVersion")
	if err != nil {
		return nil, fmt.Errorf("%w: ABIVersion in %s", ErrMissingSymbol, path)
	}
	abi, ok := abiSym.(*int)
	if !ok {
		return nil, fmt.Errorf("%w: ABIVersion in %s has type %T, want *int", ErrMissingSymbol, path, abiSym)
	}

	nameSym, err := mod.Lookup("WidgetName")
	if err != nil {
		return nil, fmt.Errorf("%w: WidgetName in %s", ErrMissingSymbol, path)
	}
	name, ok := nameSym.(*string)
	if !ok {
		return nil, fmt.Errorf("%w: WidgetName in %s has type %T, want *string", ErrMissingSymbol, path, nameSym)
	}

	newSym, err := mod.Lookup("NewWidget")
	if err != nil {
		return nil, fmt.Errorf("%w: NewWidget in %s", ErrMissingSymbol, path)
	}
	factory, ok := newSym.(func() widget.Widget)
	if !ok {
		return nil, fmt.Errorf("%w: NewWidget in %s has type %T, want func() widget.Widget", ErrMissingSymbol, path, newSym)
	}

	return &Symbols{ABIVersion: *abi, WidgetName: *name, New: factory}, nil
}
