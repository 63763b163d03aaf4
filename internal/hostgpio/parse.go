package hostgpio

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// pinState is one line of `raspi-gpio get`.
type pinState struct {
	Level int
	Func  string // INPUT, OUTPUT or alt index
	Pull  string // empty on raspi-gpio versions that do not report it
}

// pinFuncs is one line of `raspi-gpio funcs`.
type pinFuncs struct {
	DefaultPull string
	Alts        []string
}

// parseGet parses lines such as
//
//	GPIO 2: level=1 fsel=4 alt=0 func=SDA1 pull=UP
//	GPIO 4: level=1 fsel=0 func=INPUT pull=UP
//
// keyed by BCM number. A pin in an alternate mode reports its alt index.
func parseGet(out []byte) (map[int]pinState, error) {
	states := make(map[int]pinState)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "GPIO" {
			return nil, fmt.Errorf("unexpected raspi-gpio get line %q", line)
		}
		n, err := strconv.Atoi(strings.TrimSuffix(fields[1], ":"))
		if err != nil {
			return nil, fmt.Errorf("bad GPIO number in %q", line)
		}

		kv := make(map[string]string, len(fields)-2)
		for _, f := range fields[2:] {
			if k, v, ok := strings.Cut(f, "="); ok {
				kv[k] = v
			}
		}

		level, err := strconv.Atoi(kv["level"])
		if err != nil {
			return nil, fmt.Errorf("bad level in %q", line)
		}
		fn, ok := kv["alt"]
		if !ok {
			fn = kv["func"]
		}
		if fn == "" {
			return nil, fmt.Errorf("no function in %q", line)
		}
		states[n] = pinState{Level: level, Func: fn, Pull: kv["pull"]}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return states, nil
}

// parseFuncs parses the `raspi-gpio funcs` table:
//
//	GPIO, DEFAULT PULL, ALT0, ALT1, ALT2, ALT3, ALT4, ALT5
//	0, UP, SDA0, SA5, PCLK, AVEOUT_VCLK, AVEIN_VCLK, -
func parseFuncs(out []byte) (map[int]pinFuncs, error) {
	funcs := make(map[int]pinFuncs)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if header {
			header = false
			continue
		}
		cols := strings.Split(line, ",")
		if len(cols) < 2 {
			return nil, fmt.Errorf("unexpected raspi-gpio funcs line %q", line)
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		n, err := strconv.Atoi(cols[0])
		if err != nil {
			return nil, fmt.Errorf("bad GPIO number in %q", line)
		}
		funcs[n] = pinFuncs{DefaultPull: cols[1], Alts: cols[2:]}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return funcs, nil
}
