// Command sfssh is the interactive SimpleFS shell. It parses
// <diskfile> <nblocks>, opens the disk image, and then reads commands
// from stdin, one per line, dispatching to the core fs package.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	sfs "github.com/tfitzpatrick0/simplefs/pkg/fs"
)

func main() {
	app := &cli.App{
		Name:      "sfssh",
		Usage:     "SimpleFS interactive shell",
		ArgsUsage: "<diskfile> <nblocks>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "debug-level",
				Usage: "verbosity of internal DPrintf logging",
				Value: 0,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit(fmt.Sprintf("Usage: %s <diskfile> <nblocks>", c.App.Name), 1)
	}

	path := c.Args().Get(0)
	nblocks, err := strconv.Atoi(c.Args().Get(1))
	if err != nil || nblocks <= 0 {
		return cli.Exit("nblocks must be a positive integer", 1)
	}

	cfg, err := sfs.LoadConfig()
	if err != nil {
		return cli.Exit(fmt.Sprintf("loading config: %v", err), 1)
	}

	debugLevel := cfg.DebugLevel
	if c.IsSet("debug-level") {
		debugLevel = c.Int("debug-level")
	}
	sfs.SetDebugLevel(debugLevel)

	disk, err := sfs.Open(path, uint32(nblocks))
	if err != nil {
		return cli.Exit(fmt.Sprintf("opening disk: %v", err), 1)
	}

	shell := &shell{disk: disk, fs: &sfs.FileSystem{}, chunk: cfg.CopyChunk}
	shell.loop()

	shell.fs.Unmount()
	return disk.Close()
}

// shell holds the REPL's mutable state across commands: the open disk
// and the (possibly unmounted) FileSystem.
type shell struct {
	disk  *sfs.Disk
	fs    *sfs.FileSystem
	chunk int
}

func (s *shell) loop() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "sfs> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "debug":
			s.doDebug(args)
		case "format":
			s.doFormat(args)
		case "mount":
			s.doMount(args)
		case "stats":
			s.doStats(args)
		case "create":
			s.doCreate(args)
		case "remove":
			s.doRemove(args)
		case "stat":
			s.doStat(args)
		case "copyout":
			s.doCopyout(args)
		case "cat":
			s.doCat(args)
		case "copyin":
			s.doCopyin(args)
		case "help":
			s.doHelp(args)
		case "exit", "quit":
			return
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
			fmt.Println("Type 'help' for a list of commands.")
		}
	}
}

func (s *shell) doDebug(args []string) {
	if len(args) != 0 {
		fmt.Println("Usage: debug")
		return
	}
	if err := sfs.Debug(s.disk, os.Stdout); err != nil {
		fmt.Printf("debug failed: %v\n", err)
	}
}

func (s *shell) doFormat(args []string) {
	if len(args) != 0 {
		fmt.Println("Usage: format")
		return
	}
	if err := s.fs.Format(s.disk); err == nil {
		fmt.Println("disk formatted.")
	} else {
		fmt.Println("format failed!")
	}
}

func (s *shell) doMount(args []string) {
	if len(args) != 0 {
		fmt.Println("Usage: mount")
		return
	}
	if err := s.fs.Mount(s.disk); err == nil {
		fmt.Println("disk mounted.")
	} else {
		fmt.Println("mount failed!")
	}
}

func (s *shell) doStats(args []string) {
	if len(args) != 0 {
		fmt.Println("Usage: stats")
		return
	}
	fmt.Print(s.disk.Stats())
}

func (s *shell) doCreate(args []string) {
	if len(args) != 0 {
		fmt.Println("Usage: create")
		return
	}
	inodeNumber := s.fs.Create()
	if inodeNumber >= 0 {
		fmt.Printf("created inode %d.\n", inodeNumber)
	} else {
		fmt.Println("create failed!")
	}
}

func (s *shell) doRemove(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: remove <inode>")
		return
	}
	inodeNumber, _ := strconv.Atoi(args[0])
	if s.fs.Remove(uint32(inodeNumber)) {
		fmt.Printf("removed inode %d.\n", inodeNumber)
	} else {
		fmt.Println("remove failed!")
	}
}

func (s *shell) doStat(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: stat <inode>")
		return
	}
	inodeNumber, _ := strconv.Atoi(args[0])
	bytesUsed := s.fs.Stat(uint32(inodeNumber))
	if bytesUsed >= 0 {
		fmt.Printf("inode %d has size %d bytes.\n", inodeNumber, bytesUsed)
	} else {
		fmt.Println("stat failed!")
	}
}

func (s *shell) doCopyout(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: copyout <inode> <file>")
		return
	}
	inodeNumber, _ := strconv.Atoi(args[0])
	if !s.copyout(uint32(inodeNumber), args[1]) {
		fmt.Println("copyout failed!")
	}
}

func (s *shell) doCat(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: cat <inode>")
		return
	}
	inodeNumber, _ := strconv.Atoi(args[0])
	if !s.copyoutWriter(uint32(inodeNumber), os.Stdout) {
		fmt.Println("cat failed!")
	}
}

func (s *shell) doCopyin(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: copyin <file> <inode>")
		return
	}
	inodeNumber, _ := strconv.Atoi(args[1])
	if !s.copyin(args[0], uint32(inodeNumber)) {
		fmt.Println("copyin failed!")
	}
}

func (s *shell) doHelp(args []string) {
	fmt.Println("Commands are:")
	fmt.Println("    format")
	fmt.Println("    mount")
	fmt.Println("    debug")
	fmt.Println("    stats")
	fmt.Println("    create")
	fmt.Println("    remove  <inode>")
	fmt.Println("    cat     <inode>")
	fmt.Println("    stat    <inode>")
	fmt.Println("    copyin  <file> <inode>")
	fmt.Println("    copyout <inode> <file>")
	fmt.Println("    help")
	fmt.Println("    quit")
	fmt.Println("    exit")
}

// copyin reads path in chunk-sized pieces and repeatedly calls Write
// with increasing offset.
func (s *shell) copyin(path string, inodeNumber uint32) bool {
	stream, err := os.Open(path)
	if err != nil {
		fmt.Printf("Unable to open %s: %v\n", path, err)
		return false
	}
	defer stream.Close()

	buffer := make([]byte, s.chunk)
	var offset uint32
	for {
		n, err := stream.Read(buffer)
		if n <= 0 || (err != nil && n == 0) {
			break
		}
		actual := s.fs.Write(inodeNumber, buffer[:n], n, offset)
		if actual < 0 {
			fmt.Printf("write returned invalid result %d\n", actual)
			break
		}
		offset += uint32(actual)
		if int(actual) != n {
			fmt.Printf("write only wrote %d bytes, not %d bytes\n", actual, n)
			break
		}
	}
	fmt.Printf("%d bytes copied\n", offset)
	return true
}

func (s *shell) copyout(inodeNumber uint32, path string) bool {
	stream, err := os.Create(path)
	if err != nil {
		fmt.Printf("Unable to open %s: %v\n", path, err)
		return false
	}
	defer stream.Close()
	return s.copyoutWriter(inodeNumber, stream)
}

// copyoutWriter repeatedly calls Read with increasing offset until it
// returns zero.
func (s *shell) copyoutWriter(inodeNumber uint32, w *os.File) bool {
	buffer := make([]byte, s.chunk)
	var offset uint32
	for {
		result := s.fs.Read(inodeNumber, buffer, len(buffer), offset)
		if result <= 0 {
			break
		}
		w.Write(buffer[:result])
		offset += uint32(result)
	}
	fmt.Printf("%d bytes copied\n", offset)
	return true
}
