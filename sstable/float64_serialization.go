package sstable

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
)

var (
	ErrIndexOutOfRange = errors.New("sstable: index out of range")
	ErrBadShape        = errors.New("sstable: rows must have equal non-zero length")
)

// Float64Serialize writes the dense rows m to file fn. The first line holds
// the shape "rows,cols" and every following line holds one nonzero
// element as "row,col,value".
func Float64Serialize(m [][]float64, fn string) error {
	out, err := os.OpenFile(fn, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if err := Float64Write(out, m); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Float64Write writes m to w in the Float64Serialize format.
func Float64Write(w io.Writer, m [][]float64) error {
	if len(m) == 0 || len(m[0]) == 0 {
		return ErrBadShape
	}
	r, c := len(m), len(m[0])

	bw := bufio.NewWriter(w)
	// write the matrix shape
	fmt.Fprintf(bw, "%d,%d\n", r, c)
	for ridx, row := range m {
		if len(row) != c {
			return fmt.Errorf("%w: row %d has length %d, want %d", ErrBadShape, ridx, len(row), c)
		}
		for cidx, val := range row {
			if val != 0 { // only write out nonzero value
				fmt.Fprintf(bw, "%d,%d,%s\n", ridx, cidx,
					strconv.FormatFloat(val, 'g', -1, 64))
			}
		}
	}
	return bw.Flush()
}

// Float64Deserialize reads a matrix written by Float64Serialize.
func Float64Deserialize(fn string) ([][]float64, error) {
	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Float64Read(file)
}

// Float64Read reads a matrix in the Float64Serialize format from r.
func Float64Read(r io.Reader) ([][]float64, error) {
	lineIdx := 0
	var tmp [][]float64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		txt := scanner.Text()
		if lineIdx == 0 {
			shape := strings.Split(txt, ",")
			if len(shape) != 2 {
				return nil, fmt.Errorf("sstable: model corrupted, shape not found: %s", txt)
			}
			row, err := strconv.ParseUint(shape[0], 10, 32)
			if err != nil {
				return nil, err
			}
			col, err := strconv.ParseUint(shape[1], 10, 32)
			if err != nil {
				return nil, err
			}
			if row == 0 || col == 0 {
				return nil, ErrBadShape
			}
			tmp = make([][]float64, row)
			for i := range tmp {
				tmp[i] = make([]float64, col)
			}
			lineIdx += 1
			continue
		}

		value := strings.Split(txt, ",")
		if len(value) != 3 {
			log.Warningf("data corrupted, row %d, data %s",
				lineIdx, txt)
			lineIdx += 1
			continue
		}
		ridx, err := strconv.ParseUint(value[0], 10, 32)
		if err != nil {
			return nil, err
		}
		cidx, err := strconv.ParseUint(value[1], 10, 32)
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseFloat(value[2], 64)
		if err != nil {
			return nil, err
		}
		if ridx >= uint64(len(tmp)) || cidx >= uint64(len(tmp[0])) {
			return nil, fmt.Errorf("%w: [%d, %d]", ErrIndexOutOfRange, ridx, cidx)
		}
		tmp[ridx][cidx] = val

		lineIdx += 1
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if tmp == nil {
		return nil, fmt.Errorf("sstable: model corrupted, shape not found")
	}

	return tmp, nil
}
