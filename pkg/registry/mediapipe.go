package registry

import (
	"fmt"

	"github.com/aretw0/skelly/pkg/domain"
)

// MediaPipeKind is the tracker kind of the built-in MediaPipe holistic layout.
const MediaPipeKind = "mediapipe"

// Landmark counts of the MediaPipe holistic model.
const (
	mediaPipeBodyCount = 33
	mediaPipeFaceCount = 468
	mediaPipeHandCount = 21
)

var mediaPipeBody = []string{
	"nose",
	"left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

var mediaPipeHand = []string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_finger_mcp", "index_finger_pip", "index_finger_dip", "index_finger_tip",
	"middle_finger_mcp", "middle_finger_pip", "middle_finger_dip", "middle_finger_tip",
	"ring_finger_mcp", "ring_finger_pip", "ring_finger_dip", "ring_finger_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// MediaPipeHolistic returns the layout of MediaPipe holistic output:
// body [0:33], face [33:501], left hand [501:522], right hand [522:543].
func MediaPipeHolistic() TrackerLayout {
	faceStart := mediaPipeBodyCount
	leftStart := faceStart + mediaPipeFaceCount
	rightStart := leftStart + mediaPipeHandCount
	end := rightStart + mediaPipeHandCount

	return TrackerLayout{
		Kind: MediaPipeKind,
		Dims: 3,
		Regions: []RegionLayout{
			{Name: domain.AspectBody, Landmarks: append([]string(nil), mediaPipeBody...), Indices: Range(0, faceStart)},
			{Name: domain.AspectFace, Landmarks: faceLandmarks(mediaPipeFaceCount), Indices: Range(faceStart, leftStart)},
			{Name: domain.AspectLeftHand, Landmarks: prefixed("left_hand_", mediaPipeHand), Indices: Range(leftStart, rightStart)},
			{Name: domain.AspectRightHand, Landmarks: prefixed("right_hand_", mediaPipeHand), Indices: Range(rightStart, end)},
		},
	}
}

func faceLandmarks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("face_%04d", i)
	}
	return out
}

func prefixed(prefix string, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = prefix + n
	}
	return out
}
