package align

// candidate is a traceback starting point considered for multi-alt
// enumeration, ordered by descending score.
type candidate struct {
	node     *dpNode
	row, col int
	score    int32
	index    int // heap bookkeeping
}

// candidateQueue implements container/heap.Interface and holds
// candidates, adapted from the teacher's PriorityQueue to order
// traceback starting points by descending score.
type candidateQueue []*candidate

func (pq candidateQueue) Len() int { return len(pq) }

// Less orders by descending score: Pop always returns the best candidate.
func (pq candidateQueue) Less(i, j int) bool {
	return pq[i].score > pq[j].score
}

func (pq candidateQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *candidateQueue) Push(x interface{}) {
	n := len(*pq)
	c := x.(*candidate)
	c.index = n
	*pq = append(*pq, c)
}

func (pq *candidateQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	c := old[n-1]
	c.index = -1
	*pq = old[0 : n-1]
	return c
}
