// Package window computes which rows of a long table need rendering.
//
// Given the row count, a Heights source, the viewport size, the scroll
// offset and an overscan count, Compute returns the rows intersecting the
// viewport plus Overscan rows either side, each with its top offset. Uniform
// heights are answered in constant time; Layout keeps prefix offsets for
// variable heights and answers with a binary search.
//
// OverscanController raises the overscan tier during fast wheel bursts and
// drags, then relaxes back to the base tier after a quiet period.
package window
