// Package detector classifies every cataloged build into create, update or
// ignore by combining catalog entries, content fingerprints, version gating
// and the previously persisted tracking state.
package detector
