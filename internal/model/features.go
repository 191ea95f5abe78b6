package model

import "github.com/mhcattn/mhcattn/internal/domain"

// FeatureEncoder turns token sequences into positional one-hot features:
// peptide positions first, MHC positions after them. Padding (token 0)
// and tokens outside the alphabet produce no feature.
type FeatureEncoder struct {
	PeptideLength int
	MHCLength     int
	Alphabet      int
}

func (e *FeatureEncoder) FeatureSize() int {
	return (e.PeptideLength + e.MHCLength) * e.Alphabet
}

// ActiveFeatures is the largest number of non-zero features of one sample.
func (e *FeatureEncoder) ActiveFeatures() int {
	return e.PeptideLength + e.MHCLength
}

func (e *FeatureEncoder) ComputeFeatures(peptide, mhc []int) []domain.FeatureInfo {
	var input = make([]domain.FeatureInfo, 0, len(peptide)+len(mhc))
	input = e.appendSequence(input, peptide, e.PeptideLength, 0)
	input = e.appendSequence(input, mhc, e.MHCLength, e.PeptideLength*e.Alphabet)
	return input
}

func (e *FeatureEncoder) appendSequence(
	input []domain.FeatureInfo,
	tokens []int,
	maxLen int,
	offset int,
) []domain.FeatureInfo {
	for pos, token := range tokens {
		if pos >= maxLen {
			break
		}
		if token <= 0 || token >= e.Alphabet {
			continue
		}
		input = append(input, domain.FeatureInfo{
			Index: int32(offset + pos*e.Alphabet + token),
			Value: 1,
		})
	}
	return input
}
