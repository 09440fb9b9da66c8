// Package partition divides reel text into two balanced panels.
//
// Lines are grouped into blocks that start at a heading (a line containing a
// configured keyword or ending in a colon). Blocks are then assigned greedily
// to the first panel until it reaches half of the total line count, so
// related lines always stay on the same image.
package partition
