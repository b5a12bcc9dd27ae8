package interp

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/RogerWilloughby/awk-interpreter/internal/types"
)

// builtinSystem runs a shell command, flushing our output first so the
// child's output interleaves correctly. Returns the exit status.
func (p *Interp) builtinSystem(cmdStr string) types.Value {
	p.flushStdout()
	p.ioman.FlushAll()

	cmd := exec.Command("sh", "-c", cmdStr)
	cmd.Stdin = p.stdin
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	err := cmd.Run()
	if err == nil {
		return types.Num(0)
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return types.Num(float64(exitErr.ExitCode()))
	}
	p.runtimeError("system", err.Error())
	return types.Num(-1)
}

// builtinFflush implements fflush(): no argument or "" flushes
// everything including stdout; a target flushes one stream.
func (p *Interp) builtinFflush(args []types.Value) types.Value {
	if len(args) == 0 {
		p.flushStdout()
		return types.Num(float64(p.ioman.FlushAll()))
	}
	target := args[0].AsStr(p.getConvfmt())
	if target == "" {
		p.flushStdout()
		return types.Num(float64(p.ioman.FlushAll()))
	}
	if target == "/dev/stdout" || target == "-" {
		p.flushStdout()
		return types.Num(0)
	}
	return types.Num(float64(p.ioman.Flush(target)))
}

// Time functions

func (p *Interp) builtinSystime() types.Value {
	return types.Num(float64(p.now().Unix()))
}

// builtinMktime converts a "YYYY MM DD HH MM SS [DST]" datespec to an
// epoch timestamp, or -1 on malformed input.
func (p *Interp) builtinMktime(datespec string) types.Value {
	var year, month, day, hour, min, sec int
	dst := -1
	n, _ := fmt.Sscanf(datespec, "%d %d %d %d %d %d %d",
		&year, &month, &day, &hour, &min, &sec, &dst)
	if n < 6 {
		return types.Num(-1)
	}
	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local)
	return types.Num(float64(t.Unix()))
}

// builtinStrftime formats a timestamp with C strftime directives.
// Defaults: the date(1) format and the current time.
func (p *Interp) builtinStrftime(args []types.Value) types.Value {
	format := "%a %b %e %H:%M:%S %Z %Y"
	if len(args) >= 1 {
		format = args[0].AsStr(p.getConvfmt())
	}
	t := p.now()
	if len(args) >= 2 {
		t = time.Unix(int64(args[1].AsNum()), 0)
	}
	return types.Str(strftime(format, t.Local()))
}

// strftime expands the common C strftime conversions through the time
// package.
func strftime(format string, t time.Time) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			sb.WriteByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'a':
			sb.WriteString(t.Format("Mon"))
		case 'A':
			sb.WriteString(t.Format("Monday"))
		case 'b', 'h':
			sb.WriteString(t.Format("Jan"))
		case 'B':
			sb.WriteString(t.Format("January"))
		case 'c':
			sb.WriteString(t.Format("Mon Jan  2 15:04:05 2006"))
		case 'C':
			fmt.Fprintf(&sb, "%02d", t.Year()/100)
		case 'd':
			fmt.Fprintf(&sb, "%02d", t.Day())
		case 'D':
			sb.WriteString(t.Format("01/02/06"))
		case 'e':
			fmt.Fprintf(&sb, "%2d", t.Day())
		case 'F':
			sb.WriteString(t.Format("2006-01-02"))
		case 'H':
			fmt.Fprintf(&sb, "%02d", t.Hour())
		case 'I':
			sb.WriteString(t.Format("03"))
		case 'j':
			fmt.Fprintf(&sb, "%03d", t.YearDay())
		case 'm':
			fmt.Fprintf(&sb, "%02d", int(t.Month()))
		case 'M':
			fmt.Fprintf(&sb, "%02d", t.Minute())
		case 'n':
			sb.WriteByte('\n')
		case 'p':
			sb.WriteString(t.Format("PM"))
		case 'r':
			sb.WriteString(t.Format("03:04:05 PM"))
		case 'R':
			sb.WriteString(t.Format("15:04"))
		case 's':
			fmt.Fprintf(&sb, "%d", t.Unix())
		case 'S':
			fmt.Fprintf(&sb, "%02d", t.Second())
		case 't':
			sb.WriteByte('\t')
		case 'T':
			sb.WriteString(t.Format("15:04:05"))
		case 'u':
			wd := int(t.Weekday())
			if wd == 0 {
				wd = 7
			}
			fmt.Fprintf(&sb, "%d", wd)
		case 'w':
			fmt.Fprintf(&sb, "%d", int(t.Weekday()))
		case 'x':
			sb.WriteString(t.Format("01/02/06"))
		case 'X':
			sb.WriteString(t.Format("15:04:05"))
		case 'y':
			fmt.Fprintf(&sb, "%02d", t.Year()%100)
		case 'Y':
			fmt.Fprintf(&sb, "%d", t.Year())
		case 'z':
			sb.WriteString(t.Format("-0700"))
		case 'Z':
			sb.WriteString(t.Format("MST"))
		case '%':
			sb.WriteByte('%')
		default:
			sb.WriteByte('%')
			sb.WriteByte(format[i])
		}
	}
	return sb.String()
}

// I18n thin wrappers around the gettext collaborator

func (p *Interp) textdomain() string {
	d := p.globals["TEXTDOMAIN"].AsStr(p.getConvfmt())
	if d == "" {
		return "messages"
	}
	return d
}

// builtinDcgettext implements dcgettext(string [, domain [, category]]).
func (p *Interp) builtinDcgettext(args []types.Value) types.Value {
	convfmt := p.getConvfmt()
	msgid := args[0].AsStr(convfmt)
	domain := p.textdomain()
	if len(args) >= 2 && args[1].AsStr(convfmt) != "" {
		domain = args[1].AsStr(convfmt)
	}
	category := "LC_MESSAGES"
	if len(args) >= 3 {
		category = args[2].AsStr(convfmt)
	}
	return types.Str(p.gettext.Dcgettext(msgid, domain, category))
}

// builtinDcngettext implements
// dcngettext(singular, plural, n [, domain [, category]]).
func (p *Interp) builtinDcngettext(args []types.Value) types.Value {
	convfmt := p.getConvfmt()
	singular := args[0].AsStr(convfmt)
	plural := args[1].AsStr(convfmt)
	n := uint64(args[2].AsNum())
	domain := p.textdomain()
	if len(args) >= 4 && args[3].AsStr(convfmt) != "" {
		domain = args[3].AsStr(convfmt)
	}
	category := "LC_MESSAGES"
	if len(args) >= 5 {
		category = args[4].AsStr(convfmt)
	}
	return types.Str(p.gettext.Dcngettext(singular, plural, n, domain, category))
}

// builtinBindtextdomain implements bindtextdomain(directory [, domain]).
func (p *Interp) builtinBindtextdomain(args []types.Value) types.Value {
	convfmt := p.getConvfmt()
	directory := args[0].AsStr(convfmt)
	domain := p.textdomain()
	if len(args) >= 2 && args[1].AsStr(convfmt) != "" {
		domain = args[1].AsStr(convfmt)
	}
	return types.Str(p.gettext.Bindtextdomain(domain, directory))
}
