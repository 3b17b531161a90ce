// Package hexagram is the Six-Yao rules engine.
//
// It maps an upper and lower trigram, six moving-line flags and the day's
// Heavenly Stem onto a resolved chart: the hexagram and its traditional name,
// the palace it belongs to, the stem and branch of every line (na jia), the
// Six Relatives of every line and the Six Spirits sequence. When lines move,
// the transformed hexagram is resolved as well.
//
// Everything here is a pure function over fixed tables initialised once at
// package load. Nothing is mutated after that, so every exported function is
// safe to call concurrently.
package hexagram
