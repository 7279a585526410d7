package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/benbeisheim/movelog-backend/internal/model"
	"github.com/benbeisheim/movelog-backend/internal/render"
	"github.com/benbeisheim/movelog-backend/internal/termui"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	logPath := flag.String("log", "", "path to log file (logs are discarded when empty)")
	dump := flag.Bool("dump", false, "print the starting board and exit")
	plain := flag.Bool("plain", false, "disable colours in -dump output")
	flag.Parse()
	initLog(*logPath, "BOARDTERM: ")

	game := model.NewGame(uuid.New().String(), petname.Generate(2, "-"))
	log.Printf("local game %s (%s)", game.ID, game.Name)

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if *dump || !interactive {
		state := game.GetState()
		if err := render.NewText(!*plain && interactive).Render(os.Stdout, game, state.Selection); err != nil {
			fatal(err)
		}
		return
	}

	if err := termui.New(game).Run(); err != nil {
		fatal(err)
	}
}

// fatal reports on stderr as well, since the log may be discarded.
func fatal(err error) {
	log.Print(err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// initLog keeps log output off the terminal the UI is drawing on.
func initLog(dest, prefix string) {
	log.SetPrefix(prefix)
	if dest == "" {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	log.SetOutput(f)
}
