package mtbdd

// infinityVar stands for "no variable" when comparing a leaf diagram's
// level against the cube spine's current variable (spec §4.6.2: a leaf
// diagram has no node at any level, so it always compares as if its
// variable were past the end of the spine).
const infinityVar = ^uint32(0)

func variableOrInfinity(h MTBDD) uint32 {
	if IsLeaf(h) {
		return infinityVar
	}
	return GetVar(h)
}

// UnionCube adds the cube described by (vars, pattern, terminal) to an
// existing diagram by pointwise disjunction-at-terminal (spec §4.6.2).
// Parallel recursions use a spawn + local call + sync pattern: the
// locally-computed branch is pushed onto the calling worker's in-flight
// stack before Sync, since Sync may run other work that triggers GC.
func UnionCube(w WorkerID, diagram, vars MTBDD, pattern []byte, terminal MTBDD) (MTBDD, error) {
	gcTest()

	if diagram == terminal {
		return terminal, nil
	}
	if diagram == False {
		return Cube(w, vars, pattern, terminal)
	}
	if vars == True {
		return terminal, nil
	}
	if len(pattern) == 0 {
		return False, ErrInvalidCubeByte
	}

	v := GetVar(vars)
	va := variableOrInfinity(diagram)
	locals := engine().pool.Locals(int(w))

	switch {
	case va < v:
		low := GetLow(diagram)
		high := GetHigh(diagram)
		task := engine().pool.Spawn(int(w), func() (MTBDD, error) {
			return UnionCube(w, high, vars, pattern, terminal)
		})
		newLow, err := UnionCube(w, low, vars, pattern, terminal)
		if err != nil {
			return False, err
		}
		locals.Push(newLow)
		newHigh, syncErr := engine().pool.Sync(task)
		locals.Pop(1)
		locals.DropSpawns(1)
		if syncErr != nil {
			return False, syncErr
		}
		if newLow == low && newHigh == high {
			return diagram, nil
		}
		return MakeNode(w, va, newLow, newHigh), nil

	case va == v:
		low := GetLow(diagram)
		high := GetHigh(diagram)
		nextVars := GetHigh(vars)
		switch pattern[0] {
		case 0:
			newLow, err := UnionCube(w, low, nextVars, pattern[1:], terminal)
			if err != nil {
				return False, err
			}
			if newLow == low {
				return diagram, nil
			}
			return MakeNode(w, v, newLow, high), nil
		case 1:
			newHigh, err := UnionCube(w, high, nextVars, pattern[1:], terminal)
			if err != nil {
				return False, err
			}
			if newHigh == high {
				return diagram, nil
			}
			return MakeNode(w, v, low, newHigh), nil
		case 2:
			task := engine().pool.Spawn(int(w), func() (MTBDD, error) {
				return UnionCube(w, high, nextVars, pattern[1:], terminal)
			})
			newLow, err := UnionCube(w, low, nextVars, pattern[1:], terminal)
			if err != nil {
				return False, err
			}
			locals.Push(newLow)
			newHigh, syncErr := engine().pool.Sync(task)
			locals.Pop(1)
			locals.DropSpawns(1)
			if syncErr != nil {
				return False, syncErr
			}
			if newLow == low && newHigh == high {
				return diagram, nil
			}
			return MakeNode(w, v, newLow, newHigh), nil
		case 3:
			return False, ErrUnsupportedCubePattern
		default:
			return False, ErrInvalidCubeByte
		}

	default: // va > v: diagram has no node at this level
		nextVars := GetHigh(vars)
		switch pattern[0] {
		case 0:
			sub, err := UnionCube(w, diagram, nextVars, pattern[1:], terminal)
			if err != nil {
				return False, err
			}
			return MakeNode(w, v, sub, diagram), nil
		case 1:
			sub, err := UnionCube(w, diagram, nextVars, pattern[1:], terminal)
			if err != nil {
				return False, err
			}
			return MakeNode(w, v, diagram, sub), nil
		case 2:
			task := engine().pool.Spawn(int(w), func() (MTBDD, error) {
				return UnionCube(w, diagram, nextVars, pattern[1:], terminal)
			})
			newLow, err := UnionCube(w, diagram, nextVars, pattern[1:], terminal)
			if err != nil {
				return False, err
			}
			locals.Push(newLow)
			newHigh, syncErr := engine().pool.Sync(task)
			locals.Pop(1)
			locals.DropSpawns(1)
			if syncErr != nil {
				return False, syncErr
			}
			return MakeNode(w, v, newLow, newHigh), nil
		case 3:
			return False, ErrUnsupportedCubePattern
		default:
			return False, ErrInvalidCubeByte
		}
	}
}
