package mtbdd

// Cube builds the diagram of conjunctions described by vars (a variable
// spine as built by FromArray) and pattern, with terminal at the leaf
// (spec §4.6.1). Construction proceeds bottom-up along the spine.
//
// pattern[i] (consumed left to right, in step with vars's variables from
// top to bottom) means:
//
//	0  variable appears negated
//	1  variable appears positive
//	2  variable is unconstrained (skipped entirely)
//	3  pairs this variable with the next (interleaved equality s = s'),
//	   consuming two pattern bytes and two spine levels
func Cube(w WorkerID, vars MTBDD, pattern []byte, terminal MTBDD) (MTBDD, error) {
	gcTest()
	if vars == True {
		return terminal, nil
	}
	if len(pattern) == 0 {
		return False, ErrInvalidCubeByte
	}

	v := GetVar(vars)
	next := GetHigh(vars)

	switch pattern[0] {
	case 0:
		sub, err := Cube(w, next, pattern[1:], terminal)
		if err != nil {
			return False, err
		}
		return MakeNode(w, v, sub, False), nil
	case 1:
		sub, err := Cube(w, next, pattern[1:], terminal)
		if err != nil {
			return False, err
		}
		return MakeNode(w, v, False, sub), nil
	case 2:
		return Cube(w, next, pattern[1:], terminal)
	case 3:
		if len(pattern) < 2 {
			return False, ErrInvalidCubeByte
		}
		v2 := GetVar(next)
		next2 := GetHigh(next)
		sub, err := Cube(w, next2, pattern[2:], terminal)
		if err != nil {
			return False, err
		}
		eqLow := MakeNode(w, v2, sub, False)  // v=0 branch: need v2=0 too
		eqHigh := MakeNode(w, v2, False, sub) // v=1 branch: need v2=1 too
		return MakeNode(w, v, eqLow, eqHigh), nil
	default:
		return False, ErrInvalidCubeByte
	}
}
