package commands

import (
	"fmt"

	"github.com/reeflink/mobiusctl/internal/config"
	"github.com/reeflink/mobiusctl/internal/mobius"
	"github.com/reeflink/mobiusctl/internal/protocol"
	"github.com/reeflink/mobiusctl/internal/util"
)

// SceneGet prints the scene the device is currently running.
func SceneGet(session *mobius.Session) error {
	if config.Verbose {
		payload, err := session.GetAttribute(protocol.AttrCurrentScene)
		if err != nil {
			return fmt.Errorf("failed to get scene: %w", err)
		}
		util.PrintHexDump(payload)
		id, ok := protocol.DecodeScene(payload)
		if !ok {
			return fmt.Errorf("scene payload too short")
		}
		fmt.Printf("Current scene: %d\n", id)
		return nil
	}

	id, err := session.GetCurrentScene()
	if err != nil {
		return fmt.Errorf("failed to get scene: %w", err)
	}
	fmt.Printf("Current scene: %d\n", id)
	return nil
}

// SceneSet switches the device to a scene. Without verify the command
// reports success as soon as the request is written.
func SceneSet(session *mobius.Session, sceneID uint16, verify bool) error {
	if err := session.SetAttribute(protocol.AttrScene, sceneID, verify); err != nil {
		return fmt.Errorf("failed to set scene %d: %w", sceneID, err)
	}
	if verify {
		fmt.Printf("Scene set to %d\n", sceneID)
	} else {
		fmt.Printf("Scene set request sent (scene %d, unverified)\n", sceneID)
	}
	return nil
}

// Feed switches the device to the feed scene, pausing pumps so food
// stays put.
func Feed(session *mobius.Session, verify bool) error {
	if err := session.SetAttribute(protocol.AttrScene, protocol.FeedSceneID, verify); err != nil {
		return fmt.Errorf("failed to start feed mode: %w", err)
	}
	fmt.Println("Feed mode started")
	return nil
}

// Schedule puts the device back on its programmed schedule.
func Schedule(session *mobius.Session, verify bool) error {
	if err := session.SetAttribute(protocol.AttrOperationState, protocol.OperationStateSchedule, verify); err != nil {
		return fmt.Errorf("failed to resume schedule: %w", err)
	}
	fmt.Println("Schedule resumed")
	return nil
}
