package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/xyproto/env/v2"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/redex"
	"github.com/npillmayer/redex/asm"
	"github.com/npillmayer/redex/dbg"
	"github.com/npillmayer/redex/dialect"
	"github.com/npillmayer/redex/opt"
	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/redex/vm"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// main() starts an interactive CLI where users may enter expressions in
// assembler notation, together with commands to run, optimize, single-step
// or display them. It is intended as a sandbox for experiments with the
// peephole optimizer: enter an expression to evaluate it, or prefix it
// with a command:
//
//	opt (f (c 2 3))        optimize an expression and print the rewrites
//	run (+ 2 5)            evaluate against the current environment
//	step (+ 2 5)           single-step the evaluation, printing each reduction
//	tree (c (q . 1) 2)     display an expression as a tree
//	env (7 . 11)           set the argument environment for run/step
//	dialect ((include *standard-cl-21*)) detect a dialect marker
//
// Please refer to modules "opt", "vm" and "asm".
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", env.Str("REDEX_TRACE", "Info"), "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial load")
	maxcost := flag.Uint64("maxcost", 0, "Cost limit for evaluation (0 = unlimited)")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	pterm.Info.Println("Welcome to REDEX") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up arena, runner and optimizer
	a := sexp.NewArena()
	runner := vm.NewRunner()
	optimizer, err := opt.NewOptimizer(a, runner)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(1)
	}
	optOp, err := opt.NewOperator(a, runner)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(1)
	}
	runner.DefineOperator(opt.OperatorName, optOp)
	//
	// set up REPL
	repl, err := readline.New("redex> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		arena:     a,
		runner:    runner,
		optimizer: optimizer,
		repl:      repl,
		environ:   sexp.Nil,
		maxCost:   redex.Cost(*maxcost),
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if input != "" {
		if _, err := intp.Eval(input); err != nil {
			tracer().Errorf("%v", err)
			os.Exit(2)
		}
	}
	//
	// load an init file and start receiving commands / expressions
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(*initf)           // init file name provided by flag
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	arena     *sexp.Arena
	runner    *vm.ProgramRunner
	optimizer *opt.Optimizer
	repl      *readline.Instance
	environ   sexp.Node // argument environment for run/step
	maxCost   redex.Cost
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		line := scanner.Text()
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		_, err := intp.Eval(line)
		if err != nil {
			tracer().Errorf("Error line %d: "+err.Error(), lineno)
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: " + err.Error())
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval interprets a command line: an optional command word followed by an
// expression in assembler notation.
func (intp *Intp) Eval(line string) (bool, error) {
	cmd, rest := "run", line
	if i := strings.IndexAny(line, " \t"); i > 0 && !strings.HasPrefix(line, "(") {
		cmd, rest = line[:i], strings.TrimSpace(line[i:])
	} else if !strings.HasPrefix(line, "(") {
		cmd, rest = line, ""
	}
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "run":
		return false, intp.cmdRun(rest)
	case "opt":
		return false, intp.cmdOpt(rest)
	case "step":
		return false, intp.cmdStep(rest)
	case "tree":
		return false, intp.cmdTree(rest)
	case "env":
		return false, intp.cmdEnv(rest)
	case "dialect":
		return false, intp.cmdDialect(rest)
	}
	return false, fmt.Errorf("unknown command: %s", cmd)
}

func (intp *Intp) parse(src string) (sexp.Node, error) {
	if src == "" {
		return sexp.Nil, fmt.Errorf("expression expected")
	}
	return asm.Assemble(intp.arena, src)
}

func (intp *Intp) cmdRun(src string) error {
	program, err := intp.parse(src)
	if err != nil {
		return err
	}
	cost, value, err := intp.runner.RunProgram(intp.arena, program, intp.environ, intp.maxCost)
	if err != nil {
		return err
	}
	tracer().Infof("cost: %s", cost)
	pterm.Info.Println(asm.Disassemble(intp.arena, value))
	return nil
}

func (intp *Intp) cmdOpt(src string) error {
	program, err := intp.parse(src)
	if err != nil {
		return err
	}
	intp.optimizer.StartTrace()
	optimized, err := intp.optimizer.Optimize(program)
	if err != nil {
		return err
	}
	for _, ev := range intp.optimizer.TraceLog() {
		tracer().Infof("%s: %s  ~~>  %s", ev.Rule,
			asm.Disassemble(intp.arena, ev.Before),
			asm.Disassemble(intp.arena, ev.After))
	}
	pterm.Info.Println(asm.Disassemble(intp.arena, optimized))
	return nil
}

func (intp *Intp) cmdStep(src string) error {
	program, err := intp.parse(src)
	if err != nil {
		return err
	}
	m := vm.NewMachine(intp.arena, program, intp.environ, intp.maxCost)
	run := dbg.NewRun(m, dbg.NoOverride{})
	for !run.Ended() {
		rows := run.Step()
		if rows == nil {
			continue
		}
		rows.Each(func(key, value interface{}) {
			pterm.Printf("%-15s %v\n", key, value)
		})
		pterm.Println("---")
	}
	if value, ok := run.FinalResult(); ok {
		pterm.Info.Println(asm.Disassemble(intp.arena, value))
	}
	return nil
}

func (intp *Intp) cmdEnv(src string) error {
	environ, err := intp.parse(src)
	if err != nil {
		return err
	}
	intp.environ = environ
	pterm.Info.Println("env = " + asm.Disassemble(intp.arena, environ))
	return nil
}

func (intp *Intp) cmdDialect(src string) error {
	program, err := intp.parse(src)
	if err != nil {
		return err
	}
	acc := dialect.Detect(intp.arena, program)
	if !acc.Modern() {
		pterm.Info.Println("no dialect marker, classic program")
		return nil
	}
	pterm.Info.Printf("dialect stepping %d\n", acc.Stepping)
	return nil
}

// cmdTree displays an expression as a tree on the terminal.
func (intp *Intp) cmdTree(src string) error {
	program, err := intp.parse(src)
	if err != nil {
		return err
	}
	ll := leveledNode(intp.arena, program, pterm.LeveledList{}, 0)
	tracer().Debugf("|ll| = %d, ll = %v", len(ll), ll)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
	return nil
}

func leveledNode(a *sexp.Arena, n sexp.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	if a.IsAtom(n) {
		ll = append(ll, pterm.LeveledListItem{
			Level: level,
			Text:  asm.Disassemble(a, n),
		})
		return ll
	}
	for a.IsPair(n) {
		car, cdr := a.Pair(n)
		if a.IsPair(car) {
			ll = append(ll, pterm.LeveledListItem{
				Level: level,
				Text:  "(",
			})
			ll = leveledNode(a, car, ll, level+1)
		} else {
			ll = append(ll, pterm.LeveledListItem{
				Level: level,
				Text:  asm.Disassemble(a, car),
			})
		}
		n = cdr
	}
	if a.NonNil(n) {
		ll = append(ll, pterm.LeveledListItem{
			Level: level,
			Text:  ". " + asm.Disassemble(a, n),
		})
	}
	return ll
}
