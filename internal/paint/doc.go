// Package paint models paint volumes and subtractive color mixing.
//
// A [Mixture] tracks per-pigment volumes for the five base paints (cyan,
// magenta, yellow, black, white). Because concentrations are volumes divided
// by total volume, volume-weighted blending of concentrations is exactly
// mixture addition, so mixing paint streams never needs an explicit
// weighted average.
//
// Display colors are derived on demand: the base pigment colors are blended
// in CIE Lab space weighted by concentration, which approximates how real
// pigments combine far better than averaging RGB coordinates.
package paint
