package graph

import (
	"github.com/shenwei356/bio/seq"
)

// ReverseComplement reverse-complements a DNA sequence, tolerating
// ambiguity codes (N and friends) since graph node sequences are not
// guaranteed to be strict ATGC.
func ReverseComplement(s []byte) []byte {
	if len(s) == 0 {
		return s
	}
	dnaSeq, err := seq.NewSeq(seq.DNAredundant, s)
	if err != nil {
		// Falls back to a strict complement table; this only happens
		// on bytes outside the library's IUPAC DNA alphabet, which
		// become N in the result.
		return strictRevComp(s)
	}
	return dnaSeq.RevCom().Seq
}

var complement = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'N': 'N',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c', 'n': 'n',
}

func strictRevComp(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		c, ok := complement[b]
		if !ok {
			c = 'N'
		}
		out[len(s)-1-i] = c
	}
	return out
}

// NormalizeBase folds any IUPAC ambiguity byte down to one of A,C,G,T,N
// for scoring-matrix indexing purposes.
func NormalizeBase(b byte) byte {
	switch b {
	case 'A', 'a':
		return 'A'
	case 'C', 'c':
		return 'C'
	case 'G', 'g':
		return 'G'
	case 'T', 't':
		return 'T'
	default:
		return 'N'
	}
}
