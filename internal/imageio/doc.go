// Package imageio loads, resizes and saves the still images that make up a
// reel.
package imageio
