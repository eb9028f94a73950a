package substrate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

var (
	// ErrDispatchFailed is returned when an included extrinsic emitted System.ExtrinsicFailed.
	ErrDispatchFailed = errors.New("dispatch failed")

	// ErrTransactionDropped is returned when the pool drops, invalidates or replaces the
	// extrinsic before inclusion.
	ErrTransactionDropped = errors.New("transaction dropped")
)

// sp_runtime::DispatchError variant names by index.
var dispatchErrorVariants = []string{
	"Other",
	"CannotLookup",
	"BadOrigin",
	"Module",
	"ConsumerRemaining",
	"NoProviders",
	"TooManyConsumers",
	"Token",
	"Arithmetic",
	"Transactional",
	"Exhausted",
	"Corruption",
	"Unavailable",
}

// ModuleError identifies a pallet error: the pallet index and the first byte of the error
// encoding, which is the variant index.
type ModuleError struct {
	Index uint8
	Error uint8
}

// DispatchError is the reason an extrinsic failed.
type DispatchError struct {
	Module *ModuleError
	Raw    string
}

// MetaError is the metadata description of a pallet error.
type MetaError struct {
	Section string
	Name    string
	Docs    []string
}

// ErrorLookup finds the metadata of a module error.
type ErrorLookup interface {
	FindError(palletIndex, errorIndex uint8) (MetaError, bool)
}

// Describe renders the error as "section.name: docs" when it is a known module error and as
// its raw form otherwise.
func (e DispatchError) Describe(lookup ErrorLookup) string {
	if e.Module != nil && lookup != nil {
		if meta, ok := lookup.FindError(e.Module.Index, e.Module.Error); ok {
			return fmt.Sprintf("%s.%s: %s", meta.Section, meta.Name, strings.Join(meta.Docs, " "))
		}
	}
	if e.Module != nil && e.Raw == "" {
		return fmt.Sprintf("Module{index: %d, error: %d}", e.Module.Index, e.Module.Error)
	}

	return e.Raw
}

// ParseDispatchError converts the decoded dispatch_error field of System.ExtrinsicFailed.
func ParseDispatchError(value any) DispatchError {
	switch v := value.(type) {
	case registry.DecodedFields:
		return dispatchErrorFromFields(v)
	case *registry.DecodedField:
		if v == nil {
			return DispatchError{Raw: "unknown"}
		}

		return ParseDispatchError(v.Value)
	}

	if n, ok := toUint(value); ok {
		if int(n) < len(dispatchErrorVariants) {
			return DispatchError{Raw: dispatchErrorVariants[n]}
		}
	}

	return DispatchError{Raw: fmt.Sprint(value)}
}

func dispatchErrorFromFields(fields registry.DecodedFields) DispatchError {
	var (
		mod              ModuleError
		hasIndex, hasErr bool
		names            []string
	)
	for _, f := range fields {
		if f == nil {
			continue
		}
		names = append(names, f.Name)
		switch {
		case strings.HasSuffix(f.Name, "index"):
			if n, ok := toUint(f.Value); ok {
				mod.Index, hasIndex = uint8(n), true
			}
		case strings.HasSuffix(f.Name, "error"):
			if b, ok := firstByte(f.Value); ok {
				mod.Error, hasErr = b, true
			}
		default:
			if len(fields) == 1 {
				return variantFieldError(f)
			}
		}
	}
	if hasIndex && hasErr {
		return DispatchError{Module: &mod}
	}

	return DispatchError{Raw: strings.Join(names, ",")}
}

// variantFieldError converts the only field of a DispatchError variant. The variant index is
// not part of the decoded value, so an inner enum index is rendered with its type name instead
// of being matched against the DispatchError variants.
func variantFieldError(f *registry.DecodedField) DispatchError {
	switch f.Value.(type) {
	case registry.DecodedFields, *registry.DecodedField:
		return ParseDispatchError(f.Value)
	}

	name := f.Name
	if name == "" {
		name = "Unknown"
	}
	if n, ok := toUint(f.Value); ok {
		return DispatchError{Raw: fmt.Sprintf("%s(%d)", name, n)}
	}

	return DispatchError{Raw: fmt.Sprintf("%s(%v)", name, f.Value)}
}

func toUint(value any) (uint64, bool) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	switch v.Kind() { //nolint:exhaustive // only unsigned integers are expected
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return v.Uint(), true
	default:
		return 0, false
	}
}

func firstByte(value any) (uint8, bool) {
	if n, ok := toUint(value); ok {
		return uint8(n), true
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Len() > 0 {
		return toUintByte(v.Index(0).Interface())
	}

	return 0, false
}

func toUintByte(value any) (uint8, bool) {
	n, ok := toUint(value)
	return uint8(n), ok
}

// MetadataErrors returns an ErrorLookup backed by V14 runtime metadata.
func MetadataErrors(meta *types.Metadata) ErrorLookup {
	return metadataErrors{meta: meta}
}

type metadataErrors struct {
	meta *types.Metadata
}

func (m metadataErrors) FindError(palletIndex, errorIndex uint8) (MetaError, bool) {
	if m.meta == nil || m.meta.Version != 14 {
		return MetaError{}, false
	}
	v14 := m.meta.AsMetadataV14
	for _, pallet := range v14.Pallets {
		if uint8(pallet.Index) != palletIndex || !pallet.HasErrors {
			continue
		}
		typ, ok := lookupType(&v14, pallet.Errors.Type.Int64())
		if !ok || !typ.Def.IsVariant {
			return MetaError{}, false
		}
		for _, variant := range typ.Def.Variant.Variants {
			if uint8(variant.Index) != errorIndex {
				continue
			}
			docs := make([]string, 0, len(variant.Docs))
			for _, d := range variant.Docs {
				docs = append(docs, strings.TrimSpace(string(d)))
			}

			return MetaError{
				Section: lowerFirst(string(pallet.Name)),
				Name:    string(variant.Name),
				Docs:    docs,
			}, true
		}
	}

	return MetaError{}, false
}

func lookupType(meta *types.MetadataV14, id int64) (*types.Si1Type, bool) {
	if typ, ok := meta.EfficientLookup[id]; ok {
		return typ, true
	}
	for i := range meta.Lookup.Types {
		if meta.Lookup.Types[i].ID.Int64() == id {
			return &meta.Lookup.Types[i].Type, true
		}
	}

	return nil, false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}
