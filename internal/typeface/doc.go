// Package typeface resolves the font used to draw reel text.
//
// Fonts come from an ordered chain of strategies: configured font files,
// the embedded Go Regular font, and finally a fixed-size bitmap face, so text
// is always drawn even on hosts without any installed fonts.
package typeface
