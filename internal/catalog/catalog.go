// Package catalog loads event definitions from CUE files for bulk seeding.
//
// A catalog file declares events under the catalog.events path:
//
//	catalog: events: [{
//		name:          "Midnight Orchestra"
//		venue:         "Great Hall"
//		event_type:    "concert"
//		description:   "one night only"
//		event_height:  10_000
//		total_tickets: 500
//		base_price:    2500
//	}]
//
// The loader compiles the CUE, checks each entry's shape, and returns the
// definitions in declaration order. Ledger invariants that depend on live
// state (height strictly in the future, supply caps) are the engine's to
// enforce at creation time; the catalog only rejects entries that could
// never be valid.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// Definition is one event entry from a catalog file, ready to feed to the
// engine's create operation.
type Definition struct {
	Name         string
	Description  string
	Venue        string
	EventType    string
	EventHeight  uint64
	TotalTickets uint64
	BasePrice    uint64
}

// LoadError is a catalog problem with source position when CUE provides
// one.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load compiles every CUE file in dir and returns the catalog's event
// definitions in declaration order.
//
// All files in the directory must belong to the same CUE package (a single
// anonymous file also works). The first malformed entry aborts the load;
// a catalog is seeded all-or-nothing, so there is no point collecting the
// rest.
func Load(dir string) ([]Definition, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Field: "catalog", Message: fmt.Sprintf("directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Field: "catalog", Message: fmt.Sprintf("accessing %s: %v", dir, err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Field: "catalog", Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Field: "catalog", Message: fmt.Sprintf("scanning %s: %v", dir, err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Field: "catalog", Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Field: "catalog", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	eventsVal := value.LookupPath(cue.ParsePath("catalog.events"))
	if !eventsVal.Exists() {
		return nil, &LoadError{
			Field:   "catalog.events",
			Message: "catalog.events list is required",
			Pos:     value.Pos(),
		}
	}

	iter, err := eventsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []Definition
	for i := 0; iter.Next(); i++ {
		def, err := parseDefinition(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, &LoadError{
			Field:   "catalog.events",
			Message: "catalog declares no events",
			Pos:     eventsVal.Pos(),
		}
	}

	return defs, nil
}

// parseDefinition extracts one event entry from its CUE value.
func parseDefinition(v cue.Value, index int) (Definition, error) {
	field := func(name string) string {
		return fmt.Sprintf("catalog.events[%d].%s", index, name)
	}

	var def Definition
	var err error

	if def.Name, err = requiredString(v, "name", field("name")); err != nil {
		return Definition{}, err
	}
	if def.Description, err = optionalString(v, "description"); err != nil {
		return Definition{}, &LoadError{Field: field("description"), Message: err.Error(), Pos: v.Pos()}
	}
	if def.Venue, err = optionalString(v, "venue"); err != nil {
		return Definition{}, &LoadError{Field: field("venue"), Message: err.Error(), Pos: v.Pos()}
	}
	if def.EventType, err = optionalString(v, "event_type"); err != nil {
		return Definition{}, &LoadError{Field: field("event_type"), Message: err.Error(), Pos: v.Pos()}
	}
	if def.EventHeight, err = requiredUint(v, "event_height", field("event_height")); err != nil {
		return Definition{}, err
	}
	if def.TotalTickets, err = requiredUint(v, "total_tickets", field("total_tickets")); err != nil {
		return Definition{}, err
	}
	if def.BasePrice, err = requiredUint(v, "base_price", field("base_price")); err != nil {
		return Definition{}, err
	}

	// Entries that could never create successfully are caught here, with
	// the file position, instead of failing mid-seed without one.
	if def.TotalTickets == 0 {
		return Definition{}, &LoadError{Field: field("total_tickets"), Message: "must be positive", Pos: v.Pos()}
	}
	if def.BasePrice == 0 {
		return Definition{}, &LoadError{Field: field("base_price"), Message: "must be positive", Pos: v.Pos()}
	}

	return def, nil
}

func requiredString(v cue.Value, name, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", &LoadError{Field: field, Message: "required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &LoadError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	if s == "" {
		return "", &LoadError{Field: field, Message: "must not be empty", Pos: fv.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, name string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return s, nil
}

func requiredUint(v cue.Value, name, field string) (uint64, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return 0, &LoadError{Field: field, Message: "required", Pos: v.Pos()}
	}
	n, err := fv.Uint64()
	if err != nil {
		return 0, &LoadError{Field: field, Message: "must be a non-negative integer", Pos: fv.Pos()}
	}
	return n, nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	if positions := cueerrors.Positions(firstErr); len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return &LoadError{Field: "cue", Message: firstErr.Error()}
}
