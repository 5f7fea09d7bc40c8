package cloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// PCD blob support. Captures are exported as PCD v.7 with fields
// "x y z" or "x y z normal_x normal_y normal_z", ASCII or binary
// little-endian float32.

type pcdHeader struct {
	fields  []string
	points  int
	binary  bool
	hasNorm bool
}

// ReadPCD parses a PCD stream into a PointCloud.
func ReadPCD(r io.Reader) (*PointCloud, error) {
	br := bufio.NewReader(r)
	h, err := readPCDHeader(br)
	if err != nil {
		return nil, err
	}
	if h.binary {
		return readPCDBinary(br, h)
	}
	return readPCDASCII(br, h)
}

func readPCDHeader(br *bufio.Reader) (*pcdHeader, error) {
	h := &pcdHeader{points: -1}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("cloud: truncated PCD header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		key := tokens[0]
		switch key {
		case "FIELDS":
			h.fields = tokens[1:]
		case "POINTS":
			n, err := strconv.Atoi(tokens[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("cloud: bad POINTS line %q", line)
			}
			h.points = n
		case "DATA":
			if len(tokens) < 2 {
				return nil, fmt.Errorf("cloud: bad DATA line %q", line)
			}
			switch tokens[1] {
			case "ascii":
				h.binary = false
			case "binary":
				h.binary = true
			default:
				return nil, fmt.Errorf("cloud: unsupported PCD data kind %q", tokens[1])
			}
			return finishPCDHeader(h)
		case "VERSION", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT":
			// Accepted but not needed: we only read float32 xyz(+normals).
		default:
			return nil, fmt.Errorf("cloud: unknown PCD header key %q", key)
		}
	}
}

func finishPCDHeader(h *pcdHeader) (*pcdHeader, error) {
	if h.points < 0 {
		return nil, fmt.Errorf("cloud: PCD header missing POINTS")
	}
	switch strings.Join(h.fields, " ") {
	case "x y z":
		h.hasNorm = false
	case "x y z normal_x normal_y normal_z":
		h.hasNorm = true
	default:
		return nil, fmt.Errorf("cloud: unsupported PCD fields %v", h.fields)
	}
	return h, nil
}

func readPCDASCII(br *bufio.Reader, h *pcdHeader) (*PointCloud, error) {
	pc := &PointCloud{Points: make([]r3.Vector, 0, h.points)}
	if h.hasNorm {
		pc.Normals = make([]r3.Vector, 0, h.points)
	}
	for i := 0; i < h.points; i++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		vals := strings.Fields(line)
		if len(vals) != len(h.fields) {
			return nil, fmt.Errorf("cloud: PCD point %d: got %d values, want %d", i, len(vals), len(h.fields))
		}
		fs := make([]float64, len(vals))
		for j, v := range vals {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("cloud: PCD point %d: %w", i, err)
			}
			fs[j] = f
		}
		pc.Points = append(pc.Points, r3.Vector{X: fs[0], Y: fs[1], Z: fs[2]})
		if h.hasNorm {
			pc.Normals = append(pc.Normals, r3.Vector{X: fs[3], Y: fs[4], Z: fs[5]})
		}
	}
	return pc, nil
}

func readPCDBinary(br *bufio.Reader, h *pcdHeader) (*PointCloud, error) {
	stride := 3
	if h.hasNorm {
		stride = 6
	}
	buf := make([]byte, 4*stride)
	pc := &PointCloud{Points: make([]r3.Vector, 0, h.points)}
	if h.hasNorm {
		pc.Normals = make([]r3.Vector, 0, h.points)
	}
	for i := 0; i < h.points; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("cloud: truncated PCD binary data at point %d: %w", i, err)
		}
		f := func(j int) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4*j:])))
		}
		pc.Points = append(pc.Points, r3.Vector{X: f(0), Y: f(1), Z: f(2)})
		if h.hasNorm {
			pc.Normals = append(pc.Normals, r3.Vector{X: f(3), Y: f(4), Z: f(5)})
		}
	}
	return pc, nil
}

// WritePCD writes the cloud as PCD v.7. Binary output is float32
// little-endian.
func WritePCD(w io.Writer, pc *PointCloud, asBinary bool) error {
	if err := pc.Validate(); err != nil {
		return err
	}
	hasNorm := pc.Normals != nil

	fields, size, typ, count := "x y z", "4 4 4", "F F F", "1 1 1"
	if hasNorm {
		fields = "x y z normal_x normal_y normal_z"
		size = "4 4 4 4 4 4"
		typ = "F F F F F F"
		count = "1 1 1 1 1 1"
	}
	kind := "ascii"
	if asBinary {
		kind = "binary"
	}
	n := pc.Len()
	_, err := fmt.Fprintf(w, "VERSION .7\n"+
		"FIELDS %s\n"+
		"SIZE %s\n"+
		"TYPE %s\n"+
		"COUNT %s\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA %s\n", fields, size, typ, count, n, n, kind)
	if err != nil {
		return err
	}

	if asBinary {
		return writePCDBinary(w, pc, hasNorm)
	}
	return writePCDASCII(w, pc, hasNorm)
}

func writePCDASCII(w io.Writer, pc *PointCloud, hasNorm bool) error {
	bw := bufio.NewWriter(w)
	for i, p := range pc.Points {
		if hasNorm {
			n := pc.Normals[i]
			if _, err := fmt.Fprintf(bw, "%g %g %g %g %g %g\n", p.X, p.Y, p.Z, n.X, n.Y, n.Z); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(bw, "%g %g %g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writePCDBinary(w io.Writer, pc *PointCloud, hasNorm bool) error {
	bw := bufio.NewWriter(w)
	put := func(v r3.Vector) error {
		var buf [12]byte
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(v.Z)))
		_, err := bw.Write(buf[:])
		return err
	}
	for i, p := range pc.Points {
		if err := put(p); err != nil {
			return err
		}
		if hasNorm {
			if err := put(pc.Normals[i]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
