// Package detect extracts 2D object positions from frame streams.
//
// Two detectors exist: diff finds motion by differencing consecutive
// grayscale frames, hsv finds color by masking an HSV range. Both reduce
// the binary mask to its largest connected blob and report the blob's
// bounding-box centroid. The detector kind is a closed set chosen once at
// startup; an unrecognized kind fails construction.
package detect
