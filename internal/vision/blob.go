package vision

// Rect is an axis-aligned rectangle in pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// CenterX returns the horizontal centroid of the rectangle.
func (r Rect) CenterX() float64 { return float64(r.X) + float64(r.W)/2 }

// CenterY returns the vertical centroid of the rectangle.
func (r Rect) CenterY() float64 { return float64(r.Y) + float64(r.H)/2 }

// Blob is one connected region of set pixels in a binary mask.
type Blob struct {
	Area int
	Rect Rect
}

// LargestBlob scans a binary mask (nonzero = set) and returns the
// 4-connected component with the greatest area, the detection target.
// ok is false when the mask is empty.
func LargestBlob(mask *Gray) (Blob, bool) {
	w, h := mask.W, mask.H
	visited := make([]bool, w*h)
	var queue []int
	var best Blob
	found := false

	for start, v := range mask.Pix {
		if v == 0 || visited[start] {
			continue
		}

		// Flood fill from this seed, tracking the bounding box.
		minX, minY := start%w, start/w
		maxX, maxY := minX, minY
		area := 0
		visited[start] = true
		queue = append(queue[:0], start)

		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			area++
			x, y := i%w, i/w
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				if n < 0 || n >= w*h || visited[n] || mask.Pix[n] == 0 {
					continue
				}
				// Reject horizontal wrap between row ends.
				if (n == i-1 && x == 0) || (n == i+1 && x == w-1) {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
			}
		}

		if area > best.Area {
			best = Blob{
				Area: area,
				Rect: Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1},
			}
			found = true
		}
	}
	return best, found
}
