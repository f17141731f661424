/*
Package database persists model objects to a disk or a memory database and
queries both of them.

Every model type is registered as a class. A class has a disk database,
located at a configurable path, and a memory database that lives as long as
the process. Objects are archived to one of them, depending on their
in-memory-only flag, and queries return the matching objects of both, disk
objects first.

Model definition:

	type Person struct {
		database.Base
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	var people = database.MustRegister[*Person]("person", nil)

Usage:

	err := database.Initialize(cfg)
	...
	p := people.New(&Person{Name: "Ada", Age: 36})
	err = p.Archive()
	...
	adults, err := people.ObjectsWhere("age >= %d", 18)

Objects with the ArchiveOnClose option are archived when closed:

	p.SetArchiveOption(database.ArchiveOnClose)
	defer p.Close()
*/
package database
