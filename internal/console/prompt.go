package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the DD-MM-YYYY format used by every date prompt.
const dateLayout = "02-01-2006"

// errInputClosed ends the session when the input stream is exhausted.
var errInputClosed = errors.New("input closed")

// prompter reads validated answers from a line-oriented input.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *prompter) println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

// String prints the prompt and returns the next line, trimmed.
func (p *prompter) String(prompt string) (string, error) {
	p.printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Integer repeats the prompt until a whole number is entered.
func (p *prompter) Integer(prompt string) (int, error) {
	for {
		line, err := p.String(prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil {
			return n, nil
		}
		p.println("Invalid input. Please enter a valid number.")
	}
}

// Count is Integer restricted to values >= least.
func (p *prompter) Count(prompt string, least int) (int, error) {
	for {
		n, err := p.Integer(prompt)
		if err != nil {
			return 0, err
		}
		if n >= least {
			return n, nil
		}
		p.printf("Invalid input, please enter a number of at least %d.\n", least)
	}
}

// Choice repeats the prompt until a number between 1 and limit is entered.
func (p *prompter) Choice(prompt string, limit int) (int, error) {
	for {
		n, err := p.Integer(prompt)
		if err != nil {
			return 0, err
		}
		if n >= 1 && n <= limit {
			return n, nil
		}
		p.printf("Invalid input, please enter a number (from 1 to %d).\n", limit)
	}
}

// Date repeats the prompt until a DD-MM-YYYY date is entered.
func (p *prompter) Date(prompt string) (time.Time, error) {
	for {
		line, err := p.String(prompt)
		if err != nil {
			return time.Time{}, err
		}
		d, parseErr := time.Parse(dateLayout, line)
		if parseErr == nil {
			return d, nil
		}
		p.println("Invalid date format. Please enter in DD-MM-YYYY format.")
	}
}
