package domain

import (
	"github.com/asynkron/protoactor-go/actor"
)

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_NETWORK      = "network"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type ActorRef actor.PID

type ActorRequestMixIn struct {
	ReplyToRef *ActorRef
}

type ActorRequest interface {
	ReplyTo() *ActorRef
}

func (r ActorRequestMixIn) ReplyTo() *ActorRef {
	return r.ReplyToRef
}

type ActorResponseMixIn struct {
	ResponseError error
}

func (r ActorResponseMixIn) GetResponseError() error {
	return r.ResponseError
}

func (r ActorResponseMixIn) HasResponseError() bool {
	return r.ResponseError != nil
}

type ActorResponse interface {
	GetResponseError() error
	HasResponseError() bool
}

// ConvertNetworkRequest converts Graph, or the configured document of
// network Name when Graph is nil.
type ConvertNetworkRequest struct {
	ActorRequestMixIn
	Name  string
	Graph *AssetGraph
}

type ConvertNetworkResponse struct {
	ActorResponseMixIn
	Report NetworkReport
}

type GetNetworkReportRequest struct {
	ActorRequestMixIn
	Name string
}

type GetNetworkReportResponse struct {
	ActorResponseMixIn
	Report *NetworkReport
}

type ListNetworksRequest struct {
	ActorRequestMixIn
}

type ListNetworksResponse struct {
	ActorResponseMixIn
	Names []string
}

// ReloadNetworksRequest converts every configured network document.
type ReloadNetworksRequest struct {
	ActorRequestMixIn
}

type ReloadNetworksResponse struct {
	ActorResponseMixIn
	Reports []NetworkReport
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
	Buttons []GenericButton
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

// ensure interface compliance
var _ ActorRequest = (*ConvertNetworkRequest)(nil)
var _ ActorResponse = (*ConvertNetworkResponse)(nil)
