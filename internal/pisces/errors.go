package pisces

import "errors"

// ErrNotConfigured indicates a sample attribute was read before being set.
var ErrNotConfigured = errors.New("not set")

// ErrUnknownChannel indicates a name outside the oscillation channel vocabulary.
var ErrUnknownChannel = errors.New("unknown oscillation channel")

// ErrMalformedEnsembleID indicates an ensemble token that cannot be parsed.
var ErrMalformedEnsembleID = errors.New("malformed ensemble id")

// ErrCorruptID indicates a packed identity whose fields are out of range.
var ErrCorruptID = errors.New("corrupt sample id")

// ErrExposureFromData indicates explicit exposure was set while data is attached.
var ErrExposureFromData = errors.New("exposure is taken from attached data")

// ErrTypeMismatch indicates a persisted object has an unexpected type tag.
var ErrTypeMismatch = errors.New("persisted object type mismatch")
