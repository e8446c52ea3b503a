// Package vision holds the small set of image operations the filter,
// detector, and decorator nodes need: grayscale conversion, frame
// differencing, thresholding, box blur, HSV range masking, connected
// blob extraction, and marker drawing.
//
// Everything operates on plain byte buffers in row-major order with no
// external imaging dependency; frames stay in the shape they travel in.
package vision
