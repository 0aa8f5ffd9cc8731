package solver

// letterSet is a set of lowercase letters, bit i standing for 'a'+i.
type letterSet uint32

// alphabet holds all 26 letters. It is the starting admissible set of every
// position and is never mutated.
const alphabet letterSet = 1<<26 - 1

func (s letterSet) has(c byte) bool { return s&(1<<c) != 0 }

func (s letterSet) with(c byte) letterSet { return s | 1<<c }

func (s letterSet) without(c byte) letterSet { return s &^ (1 << c) }

// contains reports whether every letter of o is in s.
func (s letterSet) contains(o letterSet) bool { return s&o == o }

func only(c byte) letterSet { return 1 << c }

// lettersOf returns the set of distinct letters in w, which must be a–z.
func lettersOf(w string) letterSet {
	var s letterSet
	for i := 0; i < len(w); i++ {
		s = s.with(w[i] - 'a')
	}
	return s
}

// bytes lists the members of s in alphabetical order.
func (s letterSet) bytes() []byte {
	out := make([]byte, 0, 26)
	for c := byte(0); c < 26; c++ {
		if s.has(c) {
			out = append(out, 'a'+c)
		}
	}
	return out
}
