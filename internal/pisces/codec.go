package pisces

import (
	"fmt"
	"strconv"
	"strings"
)

// Packed identity layout, most to least significant: selection, polarity,
// detector. Field widths are fixed so a field never moves when variants
// are added within its width.
const (
	selBits = 6
	polBits = 2
	detBits = 2

	detShift = 0
	polShift = detShift + detBits
	selShift = polShift + polBits

	selMask = 1<<selBits - 1
	polMask = 1<<polBits - 1
	detMask = 1<<detBits - 1

	// IDBits is the total width of a packed identity.
	IDBits = selBits + polBits + detBits
)

// Each enumeration must fit its field; these fail to compile otherwise.
const (
	_ = uint(1<<selBits - numSelections)
	_ = uint(1<<polBits - numPolarities)
	_ = uint(1<<detBits - numDetectors)
)

const (
	ensemblePrefix = "id"
	ensembleSep    = "_"
)

// ID packs the category into an unsigned integer.
func (c Category) ID() uint32 {
	return uint32(c.Selection)&selMask<<selShift |
		uint32(c.Polarity)&polMask<<polShift |
		uint32(c.Detector)&detMask<<detShift
}

// DecodeID unpacks an identity. The result is not validated; check Valid
// before trusting it.
func DecodeID(id uint32) Category {
	return Category{
		Selection: Selection(id >> selShift & selMask),
		Polarity:  Polarity(id >> polShift & polMask),
		Detector:  Detector(id >> detShift & detMask),
	}
}

// ParseID unpacks an identity and rejects out-of-range fields.
func ParseID(id uint32) (Category, error) {
	if id>>IDBits != 0 {
		return Category{}, fmt.Errorf("%w: %d exceeds %d bits", ErrCorruptID, id, IDBits)
	}
	c := DecodeID(id)
	if !c.Valid() {
		return Category{}, fmt.Errorf("%w: %d decodes to %s", ErrCorruptID, id, c.Name())
	}
	return c, nil
}

// EnsembleID encodes an ordered, non-empty list of categories as a token
// such as "id_17_0_36".
func EnsembleID(cats []Category) (string, error) {
	if len(cats) == 0 {
		return "", fmt.Errorf("%w: empty ensemble", ErrMalformedEnsembleID)
	}
	var b strings.Builder
	b.WriteString(ensemblePrefix)
	for _, c := range cats {
		b.WriteString(ensembleSep)
		b.WriteString(strconv.FormatUint(uint64(c.ID()), 10))
	}
	return b.String(), nil
}

// ParseEnsembleID decodes a token produced by EnsembleID, preserving order.
func ParseEnsembleID(token string) ([]Category, error) {
	rest, ok := strings.CutPrefix(token, ensemblePrefix+ensembleSep)
	if !ok {
		return nil, fmt.Errorf("%w: %q lacks prefix %q", ErrMalformedEnsembleID, token, ensemblePrefix+ensembleSep)
	}
	fields := strings.Split(rest, ensembleSep)
	cats := make([]Category, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d of %q: %v", ErrMalformedEnsembleID, i, token, err)
		}
		c, err := ParseID(uint32(v))
		if err != nil {
			return nil, fmt.Errorf("%w: field %d of %q: %v", ErrMalformedEnsembleID, i, token, err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}
