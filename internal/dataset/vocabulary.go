package dataset

import "strings"

const aminoAcids = "ACDEFGHIKLMNPQRSTVWY"

const (
	PadToken       = 0
	UnknownToken   = len(aminoAcids) + 1
	// VocabularySize counts padding, the 20 standard amino acids and unknown.
	VocabularySize = len(aminoAcids) + 2
)

var tokens = func() map[rune]int {
	var res = make(map[rune]int, len(aminoAcids))
	for i, r := range aminoAcids {
		res[r] = i + 1
	}
	return res
}()

// Encode maps an amino-acid sequence to token ids, truncated or padded to
// length. Unrecognised residues become UnknownToken.
func Encode(seq string, length int) []int {
	seq = strings.ToUpper(strings.TrimSpace(seq))
	var res = make([]int, length)
	var i = 0
	for _, r := range seq {
		if i >= length {
			break
		}
		if token, ok := tokens[r]; ok {
			res[i] = token
		} else {
			res[i] = UnknownToken
		}
		i++
	}
	return res
}
