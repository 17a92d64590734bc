// Package design holds the study-design model read by the compiler: factors,
// repeated-measures dimensions, clusters, covariance descriptors, the
// hypothesis and the caller-supplied matrix table.
//
// A StudyDesign is built in code or loaded from YAML with Parse/LoadFile.
// All references between parts are string keys; Factor, Dimension,
// Covariance and Matrix resolve them.
//
// The package also owns the error taxonomy shared by every stage:
// ErrInvalidStudyDesign, ErrUnsupportedHypothesis and ErrShapeMismatch.
package design
