// Package recommendation implements campaign recommendation lifecycle
// management: creating suggested counter-campaigns and moving them through
// pending → deployed/dismissed/completed.
package recommendation
