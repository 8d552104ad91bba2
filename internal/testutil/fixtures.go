package testutil

// Sample SWC files

// ChainSWC is a soma with a two segment chain: A 10 units along +x, then B 5
// units turned a quarter turn towards +y.
var ChainSWC = `# simple chain
1 1 0 0 0 3 -1
2 2 10 0 0 1 1
3 2 10 5 0 0.5 2`

// BranchedSWC has two primary branches, one of which forks, and uses depth.
var BranchedSWC = `# branched test neuron
# columns: id type x y z radius parent
1 1 5 5 1 4 -1
2 3 15 5 1 0.8 1
3 3 25 5 2 0.6 2
4 3 20 15 2 0.6 2
5 4 5 -10 0 1.2 1
6 4 5 -20 -1 1 5`

// IrregularSWC is BranchedSWC as served by remote archives: tabs, repeated
// spaces, indentation and blank lines.
var IrregularSWC = "\r\n  # branched test neuron\r\n\n" +
	"1\t1  5   5 1 4 -1\n" +
	"   2 3\t\t15 5 1 0.8 1  \n" +
	"\n" +
	"3 3 25 5 2 0.6 2\n" +
	"4   3 20 15 2 0.6 2\n" +
	"5 4 5 -10 0 1.2 1\n" +
	"6 4 5 -20 -1 1 5\n\n\n"

// TwoRootsSWC has two records with parent -1.
var TwoRootsSWC = `1 1 0 0 0 3 -1
2 2 10 0 0 1 1
3 1 50 50 0 3 -1`

// CycleSWC has a soma plus two records that point at each other.
var CycleSWC = `1 1 0 0 0 3 -1
2 2 10 0 0 1 3
3 2 20 0 0 1 2`

// ShortLineSWC has a record with only six fields on line 3.
var ShortLineSWC = `# header
1 1 0 0 0 3 -1
2 2 10 0 0 1`
