package solver

// stats holds inv_dist-transformed counts over the current candidates.
type stats struct {
	position [][26]int // position[i][c]: candidates with letter c at i
	coverage [26]int   // coverage[c]: candidates containing c at least once
}

// ProposeGuess picks the next word to guess. It does not modify the Solver.
//
// With one candidate left that candidate is returned; with none,
// ErrUnsolvable. Otherwise letter statistics are gathered from the
// candidates only, while the words being ranked come from the whole answer
// vocabulary (or the guess vocabulary with WithGuessSearch), so a word that
// can no longer be the secret is still picked when it splits the candidates
// best. The first word with the highest score wins.
func (s *Solver) ProposeGuess() (string, error) {
	cands := s.Candidates()
	switch len(cands) {
	case 0:
		return "", ErrUnsolvable
	case 1:
		s.log.Debug().Str("guess", cands[0]).Msg("solved")
		return cands[0], nil
	}

	st := s.gather(cands)

	pool := s.answers
	if s.searchGuesses && len(s.guesses) > 0 {
		pool = s.guesses
	}

	best, bestScore, runnerUp := "", -1, -1
	for _, w := range pool {
		switch sc := st.score(w); {
		case sc > bestScore:
			runnerUp = bestScore
			best, bestScore = w, sc
		case sc > runnerUp:
			runnerUp = sc
		}
	}

	s.log.Debug().
		Int("candidates", len(cands)).
		Str("guess", best).
		Int("score", bestScore).
		Int("runner_up", runnerUp).
		Msg("proposed guess")
	return best, nil
}

func (s *Solver) gather(cands []string) *stats {
	st := &stats{position: make([][26]int, s.length)}
	for _, w := range cands {
		var seen letterSet
		for i := 0; i < len(w); i++ {
			c := w[i] - 'a'
			st.position[i][c]++
			if !seen.has(c) {
				seen = seen.with(c)
				st.coverage[c]++
			}
		}
	}

	n := len(cands)
	for i := range st.position {
		for c := range st.position[i] {
			st.position[i][c] = invDist(st.position[i][c], n)
		}
	}
	for c := range st.coverage {
		st.coverage[c] = invDist(st.coverage[c], n)
	}
	return st
}

// score sums the position score of every letter of w and the coverage score
// of each distinct letter of w.
func (st *stats) score(w string) int {
	total := 0
	var seen letterSet
	for i := 0; i < len(w); i++ {
		c := w[i] - 'a'
		total += st.position[i][c]
		if !seen.has(c) {
			seen = seen.with(c)
			total += st.coverage[c]
		}
	}
	return total
}

// invDist peaks when n is half of goal and is zero at n == 0 and n == goal.
// It stands in for the information a letter gives about the candidates.
func invDist(n, goal int) int {
	d := goal - 2*n
	if d < 0 {
		d = -d
	}
	return (goal - d) / 2
}
