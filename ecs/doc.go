// Package ecs provides ECS adapters for easel's scene event system.
//
// The primary adapter is [NewDonburiStore], which bridges easel scene events
// (zoom, pan, selection, modification) into a [Donburi] world as typed
// events and mirrors touched canvas entities as [CanvasObject] components.
// Subscribe to [SceneEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
