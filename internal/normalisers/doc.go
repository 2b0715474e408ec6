// Package normalisers turns raw document bytes into domain documents.
// Repositories hand loaded content to a normaliser before assembly.
package normalisers
