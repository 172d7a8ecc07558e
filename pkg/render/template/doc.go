// Package template defines the rendering seam used by the page renderers.
// Implementations live in sub-packages; gotemplate provides the pongo2 one.
package template
