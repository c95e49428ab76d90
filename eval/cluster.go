package eval

import (
	"log"
	"sort"

	"coref/util"
)

// Partition maps a mention id to the id of its cluster within one document.
type Partition map[int]int

// Clusters groups mentions by cluster; both levels are sorted.
func (p Partition) Clusters() [][]int {
	byID := make(map[int][]int)
	for m, c := range p {
		byID[c] = append(byID[c], m)
	}
	retval := make([][]int, 0, len(byID))
	for _, members := range byID {
		sort.Ints(members)
		retval = append(retval, members)
	}
	sort.Slice(retval, func(i, j int) bool { return retval[i][0] < retval[j][0] })
	return retval
}

// Equivalent reports whether both partitions group the same mentions together,
// regardless of cluster ids.
func (p Partition) Equivalent(other Partition) bool {
	if len(p) != len(other) {
		return false
	}
	mapping := make(map[int]int)
	reverse := make(map[int]int)
	for m, c := range p {
		oc, exists := other[m]
		if !exists {
			return false
		}
		if prev, seen := mapping[c]; seen && prev != oc {
			return false
		}
		if prev, seen := reverse[oc]; seen && prev != c {
			return false
		}
		mapping[c], reverse[oc] = oc, c
	}
	return true
}

// complete returns a copy of p in which every mention of mentions that p lacks is a
// singleton with a fresh (negative) cluster id.
func complete(p Partition, mentions Partition) Partition {
	retval := make(Partition, len(mentions))
	for m := range mentions {
		if c, exists := p[m]; exists {
			retval[m] = c
		} else {
			retval[m] = -(m + 1)
		}
	}
	for m, c := range p {
		retval[m] = c
	}
	return retval
}

func sizes(p Partition) map[int]int {
	retval := make(map[int]int)
	for _, c := range p {
		retval[c]++
	}
	return retval
}

func hasNonSingleton(p Partition) bool {
	for _, size := range sizes(p) {
		if size > 1 {
			return true
		}
	}
	return false
}

// Ratio is a numerator/denominator pair; corpus scores sum both before dividing.
type Ratio struct {
	Num, Den float64
}

func (r *Ratio) Add(other Ratio) {
	r.Num += other.Num
	r.Den += other.Den
}

func (r Ratio) Value() float64 {
	return util.SafeDiv(r.Num, r.Den)
}

// Metric scores the response partition of a document against its key partition.
type Metric func(key, response Partition) (precision, recall Ratio)

// BCubed averages, over mentions in non-singleton clusters, the share of a mention's
// cluster that the other partition puts in the same cluster. Precision iterates the
// response clusters, recall the key clusters. A document whose key has no
// non-singleton cluster scores 0/0 on both axes.
func BCubed(key, response Partition) (precision, recall Ratio) {
	if !hasNonSingleton(key) {
		return
	}
	key, response = complete(key, response), complete(response, key)
	overlap := make(map[[2]int]int)
	for m, kc := range key {
		overlap[[2]int{kc, response[m]}]++
	}
	keySizes, responseSizes := sizes(key), sizes(response)
	for m, rc := range response {
		kc := key[m]
		common := float64(overlap[[2]int{kc, rc}])
		if size := responseSizes[rc]; size > 1 {
			precision.Num += common / float64(size)
			precision.Den++
		}
		if size := keySizes[kc]; size > 1 {
			recall.Num += common / float64(size)
			recall.Den++
		}
	}
	return
}

// mucLinks sums, over the clusters of key, |cluster| - #partitions of the cluster
// induced by other, and |cluster| - 1.
func mucLinks(key, other Partition) (r Ratio) {
	partitions := make(map[int]map[int]bool)
	for m, kc := range key {
		if partitions[kc] == nil {
			partitions[kc] = make(map[int]bool)
		}
		partitions[kc][other[m]] = true
	}
	for kc, size := range sizes(key) {
		r.Num += float64(size - len(partitions[kc]))
		r.Den += float64(size - 1)
	}
	return
}

// MUC counts the links needed to rebuild the key clusters from the response
// (recall) and the response clusters from the key (precision).
func MUC(key, response Partition) (precision, recall Ratio) {
	key, response = complete(key, response), complete(response, key)
	return mucLinks(response, key), mucLinks(key, response)
}

// ClusterTotal accumulates a cluster metric across a corpus. Documents counts the
// documents whose key partition is not empty.
type ClusterTotal struct {
	Precision, Recall Ratio
	Documents         int
}

func (c *ClusterTotal) Add(metric Metric, key, response Partition) {
	p, r := metric(key, response)
	c.Precision.Add(p)
	c.Recall.Add(r)
	if len(key) > 0 {
		c.Documents++
	}
}

func (c *ClusterTotal) F1() float64 {
	return F1(c.Precision.Value(), c.Recall.Value())
}

// Report is the scoring report logged per training epoch and after evaluation.
type Report struct {
	Pairs  Total
	BCubed ClusterTotal
	MUC    ClusterTotal
}

func (r *Report) AddDocument(pairs *Result, key, response Partition) {
	r.Pairs.Add(pairs)
	r.BCubed.Add(BCubed, key, response)
	r.MUC.Add(MUC, key, response)
}

func (r *Report) Log(prefix string) {
	log.Printf("%sPairwise P/R/F1:\t%.4f\t%.4f\t%.4f (accuracy %.4f, %d pairs)",
		prefix, r.Pairs.Precision(), r.Pairs.Recall(), r.Pairs.F1(), r.Pairs.Accuracy(), r.Pairs.All())
	log.Printf("%sB-cubed P/R/F1:\t%.4f\t%.4f\t%.4f",
		prefix, r.BCubed.Precision.Value(), r.BCubed.Recall.Value(), r.BCubed.F1())
	log.Printf("%sMUC P/R/F1:\t\t%.4f\t%.4f\t%.4f (%d documents)",
		prefix, r.MUC.Precision.Value(), r.MUC.Recall.Value(), r.MUC.F1(), r.MUC.Documents)
	log.Printf("%sExact documents:\t%d of %d", prefix, r.Pairs.Exact, r.Pairs.Population)
}
