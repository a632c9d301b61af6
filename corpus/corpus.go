package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"

	"github.com/bobonovski/gomm/matrix"
)

var (
	ErrNoDocuments    = errors.New("corpus: no documents loaded")
	ErrWordIdTooLarge = errors.New("corpus: word id out of range")
)

// Corpus is a collection of weighted bag-of-words documents stored as a
// sparse document-by-word matrix.
type Corpus struct {
	VocabSize uint32
	DocNum    uint32
	// DocIds[i] is the id of the document in row i
	DocIds []uint32
	Matrix *matrix.CSR
}

// Load reads training data from file, the file format should be like:
// [docId wordId:weight wordId:weight ... wordId:weight]
// Malformed words are skipped with a log line, an id or weight that cannot
// be parsed is an error. If normalize is set every document is scaled to
// unit Euclidean norm.
func Load(fn string, normalize bool) (*Corpus, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, normalize)
}

// Read parses documents in the Load format from r.
func Read(r io.Reader, normalize bool) (*Corpus, error) {
	c := &Corpus{}
	b := matrix.NewBuilder(0)

	var (
		cols []int
		vals []float64
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		doc := strings.TrimSpace(scanner.Text())
		cols, vals = cols[:0], vals[:0]
		fields := strings.Fields(doc)
		if len(fields) < 2 {
			log.Warningf("bad document: %s", doc)
			continue
		}

		docId, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, err
		}

		for _, kv := range fields[1:] {
			wc := strings.Split(kv, ":")
			if len(wc) != 2 {
				log.Warningf("bad word weight: %s", kv)
				continue
			}

			wordId, err := strconv.ParseUint(wc[0], 10, 32)
			if err != nil {
				return nil, err
			}
			// VocabSize is wordId+1 and must fit in uint32
			if wordId >= math.MaxUint32 {
				return nil, fmt.Errorf("%w: %d", ErrWordIdTooLarge, wordId)
			}

			weight, err := strconv.ParseFloat(wc[1], 64)
			if err != nil {
				return nil, err
			}

			cols = append(cols, int(wordId))
			vals = append(vals, weight)
			if wordId+1 > uint64(c.VocabSize) {
				c.VocabSize = uint32(wordId + 1)
			}
		}

		b.AddRow(cols, vals)
		c.DocIds = append(c.DocIds, uint32(docId))
		c.DocNum += 1
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if c.DocNum == 0 {
		return nil, ErrNoDocuments
	}

	b.SetCols(int(c.VocabSize))
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if normalize {
		m = m.NormalizeRows()
	}
	c.Matrix = m

	log.Infof("number of documents %d", c.DocNum)
	log.Infof("vocabulary size %d", c.VocabSize)
	log.Infof("number of nonzero weights %d", m.NNZ())

	return c, nil
}
