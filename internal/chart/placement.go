package chart

// PlacementParent returns the next candidate ancestor for an account number:
// the number with its lowest non-zero digit cleared. 1234 -> 1230, 110 -> 100.
// Numbers with a single significant digit (100, 5000, 7) return 0, meaning
// they have no candidate ancestor and can only be roots.
func PlacementParent(number int) int {
	if number <= 0 {
		return 0
	}
	place := 1
	for (number/place)%10 == 0 {
		place *= 10
	}
	return number - ((number/place)%10)*place
}

// Ancestors lists every candidate ancestor of number, most specific first.
// 1234 -> [1230 1200 1000].
func Ancestors(number int) []int {
	var chain []int
	for p := PlacementParent(number); p > 0; p = PlacementParent(p) {
		chain = append(chain, p)
	}
	return chain
}
