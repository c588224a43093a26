// Package finding turns raw analyzer text into structured per-photo
// findings and triages each one into a severity tier.
//
// Both halves are pure functions: Parse depends only on its input text, and
// a Classifier depends only on its rule table and the finding's text, so a
// stored finding's severity can always be recomputed without calling the
// analyzer again.
package finding
