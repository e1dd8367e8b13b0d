// Package coverdb reads, merges and writes coverage databases in the Go
// coverprofile format. Unlike a report parser it preserves every block
// record verbatim, so a database can be rewritten and round-tripped
// without losing line information.
package coverdb

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/covfix/covfix/internal/domain"
	"github.com/covfix/covfix/internal/pathutil"
)

var (
	// ErrModeMismatch is returned when two databases with different
	// line-accounting modes are merged.
	ErrModeMismatch = errors.New("coverage databases use different modes")
)

// Block is one coverage record: a source range, its statement count and
// how often it executed.
type Block struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Stmts     int
	Count     int64
}

// Database is an in-memory coverage database keyed by file identifier.
type Database struct {
	Mode   string
	Blocks map[string][]Block
}

// New creates an empty database with the given mode.
func New(mode string) *Database {
	return &Database{Mode: mode, Blocks: make(map[string][]Block)}
}

// Load reads a coverage database from disk.
func Load(path string) (*Database, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	file, err := os.Open(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	db := New("")
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++
		if lineNo == 1 {
			mode, ok := strings.CutPrefix(line, "mode: ")
			if !ok {
				return nil, fmt.Errorf("line 1: missing mode header")
			}
			db.Mode = strings.TrimSpace(mode)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		filePath, block, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		db.Blocks[filePath] = append(db.Blocks[filePath], block)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

// Merge copies every record of src into the database, mapping each file
// identifier through the alias rules. A nil alias set copies identifiers
// unchanged. Records for the same source range combine by count: the
// maximum for mode "set", the sum otherwise.
func (d *Database) Merge(src *Database, aliases *domain.PathAliases) error {
	if d.Mode == "" {
		d.Mode = src.Mode
	} else if src.Mode != "" && src.Mode != d.Mode {
		return fmt.Errorf("%w: %q vs %q", ErrModeMismatch, d.Mode, src.Mode)
	}

	for file, blocks := range src.Blocks {
		target := file
		if aliases != nil {
			target = aliases.Map(file)
		}
		d.Blocks[target] = mergeBlocks(d.Blocks[target], blocks, d.Mode)
	}
	return nil
}

// Stats aggregates the database into per-file covered/total statement
// counts.
func (d *Database) Stats() map[string]domain.Stat {
	stats := make(map[string]domain.Stat, len(d.Blocks))
	for file, blocks := range d.Blocks {
		stat := stats[file]
		for _, b := range blocks {
			stat.Total += b.Stmts
			if b.Count > 0 {
				stat.Covered += b.Stmts
			}
		}
		stats[file] = stat
	}
	return stats
}

// WriteFile persists the database. Output is deterministic: files sorted
// by identifier, blocks sorted by source position.
func (d *Database) WriteFile(path string) error {
	files := make([]string, 0, len(d.Blocks))
	for file := range d.Blocks {
		files = append(files, file)
	}
	sort.Strings(files)

	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", d.Mode)
	for _, file := range files {
		blocks := append([]Block(nil), d.Blocks[file]...)
		sort.Slice(blocks, func(i, j int) bool {
			return blocks[i].less(blocks[j])
		})
		for _, blk := range blocks {
			fmt.Fprintf(&b, "%s:%d.%d,%d.%d %d %d\n",
				file, blk.StartLine, blk.StartCol, blk.EndLine, blk.EndCol, blk.Stmts, blk.Count)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func (b Block) less(other Block) bool {
	if b.StartLine != other.StartLine {
		return b.StartLine < other.StartLine
	}
	if b.StartCol != other.StartCol {
		return b.StartCol < other.StartCol
	}
	if b.EndLine != other.EndLine {
		return b.EndLine < other.EndLine
	}
	return b.EndCol < other.EndCol
}

func (b Block) samePos(other Block) bool {
	return b.StartLine == other.StartLine && b.StartCol == other.StartCol &&
		b.EndLine == other.EndLine && b.EndCol == other.EndCol
}

func mergeBlocks(dst, src []Block, mode string) []Block {
	for _, blk := range src {
		merged := false
		for i := range dst {
			if !dst[i].samePos(blk) {
				continue
			}
			if mode == "set" {
				if blk.Count > dst[i].Count {
					dst[i].Count = blk.Count
				}
			} else {
				dst[i].Count += blk.Count
			}
			merged = true
			break
		}
		if !merged {
			dst = append(dst, blk)
		}
	}
	return dst
}

func parseLine(line string) (string, Block, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return "", Block{}, fmt.Errorf("invalid coverage record")
	}

	idx := strings.LastIndex(parts[0], ":")
	if idx <= 0 {
		return "", Block{}, fmt.Errorf("missing range separator")
	}
	filePath := parts[0][:idx]

	var blk Block
	n, err := fmt.Sscanf(parts[0][idx+1:], "%d.%d,%d.%d",
		&blk.StartLine, &blk.StartCol, &blk.EndLine, &blk.EndCol)
	if err != nil || n != 4 {
		return "", Block{}, fmt.Errorf("invalid source range")
	}

	blk.Stmts, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", Block{}, fmt.Errorf("invalid statement count")
	}
	blk.Count, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", Block{}, fmt.Errorf("invalid count")
	}
	return filePath, blk, nil
}
