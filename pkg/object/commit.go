package object

import (
	"bytes"
	"fmt"
	"strings"
)

// Commit points at a tree with its parent history and authorship metadata.
type Commit struct {
	Tree      ID
	Parents   []ID
	Author    Signature
	Committer Signature
	Message   []byte
}

func (c *Commit) Kind() Type {
	return TypeCommit
}

// Marshal serializes the commit with headers in the fixed order tree,
// parent..., author, committer, then a blank line and the message.
func (c *Commit) Marshal() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.Write(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a commit. Header lines run until the first empty
// line; gpgsig continuation lines (leading space) are skipped. The remaining
// bytes form the message verbatim. tree, author and committer are required.
func UnmarshalCommit(data []byte) (*Commit, error) {
	header, message, err := splitHeader(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: %w", ErrInvalidCommitFormat)
	}

	c := &Commit{Message: message}
	var haveTree, haveAuthor, haveCommitter bool
	inSignature := false
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, " ") {
			// Continuation of a multi-line header (gpgsig).
			if inSignature {
				continue
			}
			return nil, fmt.Errorf("unmarshal commit: %w: unexpected continuation line", ErrInvalidCommitFormat)
		}
		inSignature = false

		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "tree":
			id, err := ParseID(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
			}
			c.Tree = id
			haveTree = true
		case "parent":
			id, err := ParseID(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
			}
			c.Parents = append(c.Parents, id)
		case "author":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: author: %w", err)
			}
			c.Author = sig
			haveAuthor = true
		case "committer":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: committer: %w", err)
			}
			c.Committer = sig
			haveCommitter = true
		case "gpgsig":
			inSignature = true
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header %q", ErrInvalidCommitFormat, key)
		}
	}

	if !haveTree || !haveAuthor || !haveCommitter {
		return nil, fmt.Errorf("unmarshal commit: %w: missing required header", ErrInvalidCommitFormat)
	}
	return c, nil
}

// splitHeader cuts an object body at the first empty line and returns the
// header text plus a copy of the message bytes.
func splitHeader(data []byte) (string, []byte, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return "", nil, ErrInvalidObject
	}
	message := make([]byte, len(data)-idx-2)
	copy(message, data[idx+2:])
	return string(data[:idx]), message, nil
}
