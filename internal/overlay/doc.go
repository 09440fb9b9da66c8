// Package overlay renders centered text onto background images.
//
// A Renderer lays out a panel of lines as one vertically centered block with
// a fixed line height of font size plus spacing. Each line is centered
// horizontally on its own measured width, and an optional light gray drop
// shadow can be drawn behind the text.
package overlay
