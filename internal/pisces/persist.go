package pisces

import (
	"context"
	"fmt"
	"path"
	"strconv"
)

// Store is a hierarchical key/value store of string fields. dir is a
// slash-separated path.
type Store interface {
	PutString(ctx context.Context, dir, key, value string) error
	GetString(ctx context.Context, dir, key string) (string, error)
}

const (
	typeKey = "type"

	oscChannelType = "OscChannel"
	sampleType     = "Sample"
)

func checkType(ctx context.Context, st Store, dir, want string) error {
	got, err := st.GetString(ctx, dir, typeKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", dir, err)
	}
	if got != want {
		return fmt.Errorf("load %s: %w: want %q, got %q", dir, ErrTypeMismatch, want, got)
	}
	return nil
}

// SaveTo writes the channel under dir/name.
func (c OscChannel) SaveTo(ctx context.Context, st Store, dir, name string) error {
	d := path.Join(dir, name)
	if err := st.PutString(ctx, d, typeKey, oscChannelType); err != nil {
		return fmt.Errorf("save channel %s: %w", d, err)
	}
	if err := st.PutString(ctx, d, "name", c.name); err != nil {
		return fmt.Errorf("save channel %s: %w", d, err)
	}
	return nil
}

// LoadOscChannel reads a channel written by SaveTo.
func LoadOscChannel(ctx context.Context, st Store, dir, name string) (OscChannel, error) {
	d := path.Join(dir, name)
	if err := checkType(ctx, st, d, oscChannelType); err != nil {
		return OscChannel{}, err
	}
	n, err := st.GetString(ctx, d, "name")
	if err != nil {
		return OscChannel{}, fmt.Errorf("load channel %s: %w", d, err)
	}
	return NewOscChannel(n)
}

// SaveTo writes the sample's category, exposure and auxiliary flag under
// dir/name. Predictions and spectra are not persisted.
func (s *Sample) SaveTo(ctx context.Context, st Store, dir, name string) error {
	d := path.Join(dir, name)
	fields := []struct{ key, value string }{
		{typeKey, sampleType},
		{"id", strconv.FormatUint(uint64(s.ID()), 10)},
		{"pot", strconv.FormatFloat(s.pot, 'g', -1, 64)},
		{"livetime", strconv.FormatFloat(s.livetime, 'g', -1, 64)},
		{"aux", strconv.FormatBool(s.aux)},
	}
	for _, f := range fields {
		if err := st.PutString(ctx, d, f.key, f.value); err != nil {
			return fmt.Errorf("save sample %s: %w", d, err)
		}
	}
	return nil
}

// LoadSample reads a sample written by SaveTo.
func LoadSample(ctx context.Context, st Store, dir, name string) (*Sample, error) {
	d := path.Join(dir, name)
	if err := checkType(ctx, st, d, sampleType); err != nil {
		return nil, err
	}
	get := func(key string) (string, error) {
		v, err := st.GetString(ctx, d, key)
		if err != nil {
			return "", fmt.Errorf("load sample %s: %w", d, err)
		}
		return v, nil
	}

	raw, err := get("id")
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("load sample %s: id: %w", d, err)
	}
	s, err := SampleFromID(uint32(id))
	if err != nil {
		return nil, fmt.Errorf("load sample %s: %w", d, err)
	}

	for _, f := range []struct {
		key string
		dst *float64
	}{{"pot", &s.pot}, {"livetime", &s.livetime}} {
		raw, err := get(f.key)
		if err != nil {
			return nil, err
		}
		if *f.dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("load sample %s: %s: %w", d, f.key, err)
		}
	}

	raw, err = get("aux")
	if err != nil {
		return nil, err
	}
	if s.aux, err = strconv.ParseBool(raw); err != nil {
		return nil, fmt.Errorf("load sample %s: aux: %w", d, err)
	}
	return s, nil
}
