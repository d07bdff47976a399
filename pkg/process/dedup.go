package process

import "github.com/wdm0006/seriesscope/pkg/frame"

// dropConsecutiveDuplicates keeps the first value and every value that
// differs from the preceding input value. Non-null values compare with exact
// float64 equality; two nulls are equal, a null and a number are not.
func dropConsecutiveDuplicates(s frame.Series) frame.Series {
	b := frame.NewBuilder(s.Name(), s.Len())
	for i := 0; i < s.Len(); i++ {
		v, ok := s.At(i)
		if i > 0 {
			pv, pok := s.At(i - 1)
			if ok == pok && (!ok || v == pv) {
				continue
			}
		}
		if ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
	return b.Series()
}
