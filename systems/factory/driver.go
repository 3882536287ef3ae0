package factory

import (
	"github.com/automoto/racetrainer/agent"
	"github.com/automoto/racetrainer/archetypes"
	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/tags"
	"github.com/google/uuid"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateDriver spawns a driver and starts its first episode.
func CreateDriver(ecs *ecs.ECS, slot int, controller *agent.Controller, policy agent.Policy, sizePx float64) *donburi.Entry {
	driver := archetypes.Driver.Spawn(ecs)

	obj := resolv.NewObject(0, 0, sizePx, sizePx, tags.ResolvDriver)
	obj.SetShape(resolv.NewRectangle(0, 0, sizePx, sizePx))
	addToSpace(ecs, driver, obj)

	components.Driver.SetValue(driver, components.DriverData{
		Slot:       slot,
		Controller: controller,
		Policy:     policy,
	})
	components.Contacts.SetValue(driver, components.ContactsData{
		Touching: make(map[*resolv.Object]bool),
	})

	controller.OnEpisodeBegin()
	components.Episode.SetValue(driver, components.EpisodeData{
		ID:     uuid.New(),
		Number: 1,
	})

	return driver
}
